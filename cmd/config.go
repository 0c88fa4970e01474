package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zhubert/taskflow/internal/config"
)

func (a *app) configCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Show or write configuration",
	}

	c.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			_, err = a.out.Write(data)
			return err
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the resolved configuration to ./.taskflow/config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}
			if err := a.cfg.Save(workDir); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Wrote %s/%s/config.yaml\n", workDir, config.DirName)
			return nil
		},
	})

	return c
}
