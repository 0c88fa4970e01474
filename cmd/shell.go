package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zhubert/taskflow/internal/config"
	"github.com/zhubert/taskflow/internal/shell"
)

func (a *app) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Long: `Start an interactive session with line editing and history.

The filter chosen in the session applies only to that session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			history := filepath.Join(a.home, config.DirName, "history")
			sh := shell.New(a.store, a.renderer, a.logger, a.out, history)
			return sh.Run()
		},
	}
}
