// Package cmd implements the taskflow command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zhubert/taskflow/internal/config"
	"github.com/zhubert/taskflow/internal/kv"
	"github.com/zhubert/taskflow/internal/logging"
	"github.com/zhubert/taskflow/internal/render"
	"github.com/zhubert/taskflow/internal/task"
	"github.com/zhubert/taskflow/internal/version"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	root   *cobra.Command
	out    io.Writer
	errOut io.Writer

	// flags
	configPath string
	backend    string
	path       string
	key        string
	logLevel   string
	style      string

	home     string
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	storage  kv.Store
	store    *task.Store
	renderer *render.Renderer
}

func newApp(out, errOut io.Writer) *app {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "taskflow",
		Short:         "A small task list that remembers where you left off",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(task.FilterAll, false, false)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: ~/.taskflow/config.yaml and ./.taskflow/config.yaml)")
	pf.StringVar(&a.backend, "backend", "", "storage backend (file|sqlite|memory)")
	pf.StringVar(&a.path, "path", "", "storage directory (file) or database file (sqlite)")
	pf.StringVar(&a.key, "key", "", "snapshot key")
	pf.StringVar(&a.logLevel, "log-level", "", "debug log level (debug|info|warn|error)")
	pf.StringVar(&a.style, "style", "", "output style (auto|dark|light|notty|plain)")

	root.AddCommand(
		a.addCmd(),
		a.toggleCmd(),
		a.deleteCmd(),
		a.clearCmd(),
		a.completeAllCmd(),
		a.listCmd(),
		a.statsCmd(),
		a.shellCmd(),
		a.watchCmd(),
		a.configCmd(),
		a.versionCmd(),
	)

	a.root = root
	return a
}

// Execute runs the root command.
func Execute() {
	a := newApp(os.Stdout, os.Stderr)
	if err := a.execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) execute(args []string) error {
	a.root.SetArgs(args)
	defer func() {
		if cerr := a.close(); cerr != nil {
			fmt.Fprintf(a.errOut, "closing: %v\n", cerr)
		}
	}()
	return a.root.Execute()
}

// loadConfig resolves configuration from files, environment, and flags.
func (a *app) loadConfig() error {
	if a.cfg != nil {
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	a.home = home

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := config.Load(home, workDir, a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if a.backend != "" {
		cfg.Backend = a.backend
	}
	if a.path != "" {
		cfg.Path = a.path
	}
	if a.key != "" {
		cfg.Key = a.key
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.style != "" {
		cfg.Style = a.style
	}
	if err := cfg.Finalize(home); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a.cfg = cfg
	return nil
}

// open sets up logging, storage, and the task store.
func (a *app) open() error {
	if a.store != nil {
		return nil
	}
	if err := a.loadConfig(); err != nil {
		return err
	}

	logger, closeLog, err := logging.Setup(filepath.Join(a.home, config.DirName), a.cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.logger = logger
	a.closeLog = closeLog

	storage, err := kv.Open(a.cfg.Backend, a.cfg.Path)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", a.cfg.Backend, err)
	}
	a.storage = storage

	a.store = task.NewStore(storage,
		task.WithKey(a.cfg.Key),
		task.WithLogger(logger),
	)
	res, err := a.store.Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	logger.Info("store opened",
		"backend", a.cfg.Backend,
		"path", a.cfg.Path,
		"key", a.cfg.Key,
		"result", res.String(),
		"tasks", a.store.Len(),
	)

	a.renderer = render.New(a.cfg.Style)
	return nil
}

func (a *app) close() error {
	var firstErr error
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			firstErr = fmt.Errorf("closing store: %w", err)
		}
		a.storage = nil
	}
	if a.closeLog != nil {
		if err := a.closeLog(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
		a.closeLog = nil
	}
	return firstErr
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "taskflow %s\n", version.String())
		},
	}
}
