package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhubert/taskflow/internal/kv"
	"github.com/zhubert/taskflow/internal/render"
	"github.com/zhubert/taskflow/internal/task"
	"github.com/zhubert/taskflow/internal/watch"
)

func (a *app) watchCmd() *cobra.Command {
	var filterName string
	var debounce time.Duration
	c := &cobra.Command{
		Use:   "watch",
		Short: "Redraw the list whenever the snapshot file changes",
		Long: `Redraw the list whenever another taskflow process writes the snapshot.

Only the file backend can be watched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := task.ParseFilter(filterName)
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			fileStore, ok := a.storage.(*kv.File)
			if !ok {
				return errors.New("watch requires the file backend")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runWatch(ctx, fileStore.Path(a.cfg.Key), f, debounce)
		},
	}
	c.Flags().StringVarP(&filterName, "filter", "f", string(task.FilterAll), "which tasks to show (all|active|completed)")
	c.Flags().DurationVar(&debounce, "debounce", 150*time.Millisecond, "wait this long after a change before redrawing")
	return c
}

func (a *app) runWatch(ctx context.Context, path string, f task.Filter, debounce time.Duration) error {
	redraw := func() {
		fmt.Fprint(a.out, a.renderer.Render(render.NewView(a.store, f)))
	}

	w, err := watch.New(a.store, path,
		watch.WithDebounce(debounce),
		watch.OnChange(func([]task.Task) {
			a.logger.Debug("snapshot changed", "path", path)
			redraw()
		}),
		watch.OnError(func(err error) {
			a.logger.Warn("watch error", "error", err)
		}),
	)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Close()

	redraw()
	<-ctx.Done()
	return nil
}
