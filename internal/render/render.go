// Package render formats the task list for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/zhubert/taskflow/internal/task"
)

// Empty-state messages.
const (
	NoTasks       = "No tasks yet. Start with one above."
	NoTasksFilter = "No tasks in this filter."
)

// shortIDLen is how many id characters are shown next to each task.
const shortIDLen = 8

// View is what gets rendered: the visible tasks plus collection-wide stats.
type View struct {
	Tasks  []task.Task
	Filter task.Filter
	Stats  task.Stats
}

// NewView builds a View from a store.
func NewView(s *task.Store, f task.Filter) View {
	return View{
		Tasks:  s.Visible(f),
		Filter: f,
		Stats:  s.Stats(),
	}
}

// ShortID truncates an id for display.
func ShortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// Summary is the one-line progress summary.
func Summary(st task.Stats) string {
	return fmt.Sprintf("%d left · %d done · %d%%", st.Remaining, st.Completed, st.Progress)
}

// ProgressBar draws a fixed-width bar for st.
func ProgressBar(st task.Stats, width int) string {
	if width <= 0 {
		return ""
	}
	filled := st.Progress * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func emptyMessage(v View) string {
	if v.Stats.Total == 0 {
		return NoTasks
	}
	return NoTasksFilter
}

// Markdown renders v as a markdown document.
func Markdown(v View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**%s**\n\n", escape(Summary(v.Stats)))
	fmt.Fprintf(&b, "Filter: *%s*\n\n", v.Filter)

	if len(v.Tasks) == 0 {
		fmt.Fprintf(&b, "> %s\n\n", emptyMessage(v))
	}
	for i, t := range v.Tasks {
		text := escape(t.Text)
		mark := " "
		if t.Done {
			mark = "x"
			text = "~~" + text + "~~"
		}
		fmt.Fprintf(&b, "%d. [%s] %s `%s`\n", i+1, mark, text, ShortID(t.ID))
	}
	if len(v.Tasks) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%d total tasks\n", v.Stats.Total)
	return b.String()
}

// Plain renders v without any markup.
func Plain(v View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", ProgressBar(v.Stats, 20), Summary(v.Stats))
	if len(v.Tasks) == 0 {
		fmt.Fprintf(&b, "  %s\n", emptyMessage(v))
	}
	for i, t := range v.Tasks {
		mark := " "
		if t.Done {
			mark = "x"
		}
		fmt.Fprintf(&b, "%3d. [%s] %s  (%s)\n", i+1, mark, t.Text, ShortID(t.ID))
	}
	fmt.Fprintf(&b, "%d total tasks\n", v.Stats.Total)
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"~", `\~`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"|", `\|`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

// Renderer turns views into terminal output.
type Renderer struct {
	tr *glamour.TermRenderer // nil renders plain text
}

// New creates a Renderer for a style: auto, dark, light, notty, or plain.
// If glamour cannot be initialized the renderer falls back to plain text.
func New(style string) *Renderer {
	var opt glamour.TermRendererOption
	switch style {
	case "plain":
		return &Renderer{}
	case "dark", "light", "notty":
		opt = glamour.WithStandardStyle(style)
	default:
		opt = glamour.WithAutoStyle()
	}

	tr, err := glamour.NewTermRenderer(
		opt,
		glamour.WithWordWrap(0), // No wrapping - let terminal handle it
	)
	if err != nil {
		return &Renderer{}
	}
	return &Renderer{tr: tr}
}

// Render formats v, falling back to plain text when markdown rendering fails.
func (r *Renderer) Render(v View) string {
	if r == nil || r.tr == nil {
		return Plain(v)
	}
	out, err := r.tr.Render(Markdown(v))
	if err != nil {
		return Plain(v)
	}
	return out
}
