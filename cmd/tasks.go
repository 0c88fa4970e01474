package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/taskflow/internal/render"
	"github.com/zhubert/taskflow/internal/task"
)

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task to the top of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			t, ok, err := a.store.Add(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("adding task: %w", err)
			}
			if !ok {
				fmt.Fprintln(a.out, "Nothing to add.")
				return nil
			}
			fmt.Fprintf(a.out, "Added %q (%s)\n", t.Text, render.ShortID(t.ID))
			return nil
		},
	}
}

// refCommand builds a command that acts on one task chosen by reference.
func (a *app) refCommand(use, short string, aliases []string, act func(task.Task) error, done func(task.Task) string) *cobra.Command {
	var filterName string
	c := &cobra.Command{
		Use:     use + " <ref>",
		Aliases: aliases,
		Short:   short,
		Long: short + `.

<ref> is a position in the list (as shown by "taskflow ls" with the same
--filter) or a task id prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := task.ParseFilter(filterName)
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			t, err := a.store.Resolve(args[0], f)
			if err != nil {
				return err
			}
			if err := act(t); err != nil {
				return err
			}
			fmt.Fprintln(a.out, done(t))
			return nil
		},
	}
	c.Flags().StringVarP(&filterName, "filter", "f", string(task.FilterAll), "filter used to resolve list positions")
	return c
}

func (a *app) toggleCmd() *cobra.Command {
	return a.refCommand("toggle", "Mark a task done or not done", []string{"done"},
		func(t task.Task) error { return a.store.Toggle(t.ID) },
		func(t task.Task) string {
			if t.Done {
				return fmt.Sprintf("Marked %q not done", t.Text)
			}
			return fmt.Sprintf("Marked %q done", t.Text)
		},
	)
}

func (a *app) deleteCmd() *cobra.Command {
	return a.refCommand("rm", "Delete a task", []string{"delete"},
		func(t task.Task) error { return a.store.Delete(t.ID) },
		func(t task.Task) string { return fmt.Sprintf("Deleted %q", t.Text) },
	)
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			before := a.store.Len()
			if err := a.store.ClearCompleted(); err != nil {
				return fmt.Errorf("clearing completed: %w", err)
			}
			fmt.Fprintf(a.out, "Cleared %d completed tasks\n", before-a.store.Len())
			return nil
		},
	}
}

func (a *app) completeAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete-all",
		Short: "Mark every task done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			if err := a.store.CompleteAll(); err != nil {
				return fmt.Errorf("completing tasks: %w", err)
			}
			st := a.store.Stats()
			fmt.Fprintf(a.out, "Completed all %d tasks\n", st.Total)
			return nil
		},
	}
}
