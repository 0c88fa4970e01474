// Package shell runs the interactive task list session.
package shell

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"

	"github.com/zhubert/taskflow/internal/render"
	"github.com/zhubert/taskflow/internal/task"
)

// Colors for terminal output.
const (
	colorReset = "\033[0m"
	colorDim   = "\033[2m"
	colorBold  = "\033[1m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
)

// errQuit ends the session.
var errQuit = errors.New("quit")

const helpText = `Commands:
  add <text>       Add a task (bare text works too)
  toggle <ref>     Mark a task done or not done
  rm <ref>         Delete a task
  clear            Remove completed tasks
  all              Mark every task done
  filter <name>    Show all, active, or completed tasks
  ls               Show the list
  stats            Show progress
  help             Show this help
  exit             Leave the shell

<ref> is the number shown in the list or an id prefix.`

// noArgCommands take no argument; a line starting with one of them and
// carrying more text is added as a task.
var noArgCommands = map[string]bool{
	"exit": true, "quit": true, "q": true,
	"help": true, "?": true,
	"ls": true, "list": true,
	"stats": true,
	"clear": true,
	"all": true, "complete-all": true,
}

// Shell handles the readline interaction loop. The filter is session state
// and is never persisted.
type Shell struct {
	store    *task.Store
	renderer *render.Renderer
	logger   *slog.Logger
	out      io.Writer
	filter   task.Filter
	history  string
}

// New creates a Shell writing to out. history is the readline history file;
// empty disables history.
func New(store *task.Store, renderer *render.Renderer, logger *slog.Logger, out io.Writer, history string) *Shell {
	return &Shell{
		store:    store,
		renderer: renderer,
		logger:   logger,
		out:      out,
		filter:   task.FilterAll,
		history:  history,
	}
}

// Filter returns the current filter.
func (s *Shell) Filter() task.Filter { return s.filter }

// Run starts the main interaction loop.
func (s *Shell) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          colorBold + "> " + colorReset,
		HistoryFile:     s.history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          s.out,
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(s.out, "%staskflow%s %s(type help for commands)%s\n", colorBold, colorReset, colorDim, colorReset)
	s.show()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue // Ctrl+C clears line, continue prompting
			}
			if err == io.EOF {
				fmt.Fprintln(s.out, "Goodbye.")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		if err := s.Exec(line); err != nil {
			if errors.Is(err, errQuit) {
				fmt.Fprintln(s.out, "Goodbye.")
				return nil
			}
			fmt.Fprintf(s.out, "%sError: %v%s\n", colorRed, err, colorReset)
		}
	}
}

// Exec runs a single command line.
func (s *Shell) Exec(line string) error {
	input := strings.TrimSpace(line)
	if input == "" {
		return nil
	}

	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)
	cmd = strings.ToLower(cmd)

	// "clear out the garage" is a task, not the clear command.
	if arg != "" && noArgCommands[cmd] {
		return s.add(input)
	}

	switch cmd {
	case "exit", "quit", "q":
		return errQuit
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
		return nil
	case "ls", "list":
		s.show()
		return nil
	case "stats":
		st := s.store.Stats()
		fmt.Fprintf(s.out, "%s %s, %d total\n", render.ProgressBar(st, 20), render.Summary(st), st.Total)
		return nil
	case "filter":
		f, err := task.ParseFilter(arg)
		if err != nil {
			return err
		}
		s.filter = f
		s.show()
		return nil
	case "add":
		return s.add(arg)
	case "toggle", "t", "done":
		return s.withRef(arg, func(t task.Task) error {
			if err := s.store.Toggle(t.ID); err != nil {
				return err
			}
			state := "not done"
			if !t.Done {
				state = "done"
			}
			s.note("%q marked %s", t.Text, state)
			return nil
		})
	case "rm", "delete", "del":
		return s.withRef(arg, func(t task.Task) error {
			if err := s.store.Delete(t.ID); err != nil {
				return err
			}
			s.note("deleted %q", t.Text)
			return nil
		})
	case "clear":
		before := s.store.Len()
		if err := s.store.ClearCompleted(); err != nil {
			return err
		}
		s.note("cleared %d completed", before-s.store.Len())
		return nil
	case "all", "complete-all":
		if err := s.store.CompleteAll(); err != nil {
			return err
		}
		s.note("all tasks done")
		return nil
	default:
		return s.add(input)
	}
}

func (s *Shell) add(text string) error {
	t, ok, err := s.store.Add(text)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(s.out, "%snothing to add%s\n", colorDim, colorReset)
		return nil
	}
	s.logger.Debug("shell add", "id", t.ID)
	s.note("added %q", t.Text)
	return nil
}

func (s *Shell) withRef(ref string, fn func(task.Task) error) error {
	if ref == "" {
		return fmt.Errorf("missing task reference")
	}
	t, err := s.store.Resolve(ref, s.filter)
	if err != nil {
		return err
	}
	return fn(t)
}

func (s *Shell) note(format string, args ...any) {
	fmt.Fprintf(s.out, "%s✓ %s%s\n", colorGreen, fmt.Sprintf(format, args...), colorReset)
}

func (s *Shell) show() {
	fmt.Fprint(s.out, s.renderer.Render(render.NewView(s.store, s.filter)))
}
