package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhubert/taskflow/internal/render"
	"github.com/zhubert/taskflow/internal/task"
)

func (a *app) listCmd() *cobra.Command {
	var filterName string
	var asJSON, long bool
	c := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Show tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := task.ParseFilter(filterName)
			if err != nil {
				return err
			}
			return a.runList(f, asJSON, long)
		},
	}
	c.Flags().StringVarP(&filterName, "filter", "f", string(task.FilterAll), "which tasks to show (all|active|completed)")
	c.Flags().BoolVar(&asJSON, "json", false, "print the visible tasks in snapshot format")
	c.Flags().BoolVarP(&long, "long", "l", false, "print a table with ids and ages")
	return c
}

func (a *app) runList(f task.Filter, asJSON, long bool) error {
	if err := a.open(); err != nil {
		return err
	}

	switch {
	case asJSON:
		data, err := task.EncodeSnapshot(a.store.Visible(f))
		if err != nil {
			return err
		}
		_, err = a.out.Write(data)
		return err
	case long:
		a.printTable(a.store.Visible(f))
		return nil
	default:
		fmt.Fprint(a.out, a.renderer.Render(render.NewView(a.store, f)))
		return nil
	}
}

func (a *app) printTable(tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks.")
		return
	}

	fmt.Fprintf(a.out, "%-4s  %-36s  %-4s  %-12s  %s\n", "#", "ID", "DONE", "ADDED", "TEXT")
	fmt.Fprintln(a.out, "──────────────────────────────────────────────────────────────────────────────")

	for i, t := range tasks {
		done := "no"
		if t.Done {
			done = "yes"
		}
		fmt.Fprintf(a.out, "%-4d  %-36s  %-4s  %-12s  %s\n",
			i+1,
			t.ID,
			done,
			formatTime(t.CreatedAt),
			truncate(t.Text, 40),
		)
	}
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func (a *app) statsCmd() *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "stats",
		Short: "Show progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			st := a.store.Stats()
			if asJSON {
				enc := json.NewEncoder(a.out)
				return enc.Encode(st)
			}
			fmt.Fprintf(a.out, "%s %s\n", render.ProgressBar(st, 20), render.Summary(st))
			fmt.Fprintf(a.out, "%d total tasks\n", st.Total)
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "print stats as JSON")
	return c
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
