package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/backend/printer"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/figure"
	"github.com/matzehuels/cardstack/pkg/pipeline"
)

// Step view styles
var (
	stepHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	stepBodyStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	stepErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// stepCommand creates the interactive step command.
func (c *CLI) stepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "step [job.toml]",
		Short: "Step through a job's layouts one at a time",
		Long: `Step through a job's layouts one at a time.

Every figure of the job is drawn with the print backend after each layout
runs, so the object tree can be followed as it grows.

Keys: n/space run the next layout, f finishes the figure, tab skips to the
next figure, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStep(cmd.Context(), args[0])
		},
		ValidArgsFunction: completeJobFile,
	}
}

func (c *CLI) runStep(ctx context.Context, path string) error {
	cfg, err := c.loadJob(path)
	if err != nil {
		return err
	}
	cfg.Backend, cfg.Formats = printer.Name, nil

	var out bytes.Buffer
	job, err := pipeline.Prepare(ctx, cfg, &out)
	if err != nil {
		return err
	}
	defer job.Close()
	if job.Collection.Len() == 0 {
		printWarning(c.stdout(), "Job has no figures")
		return nil
	}

	final, err := tea.NewProgram(newStepModel(job.Collection.Figures(), &out), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(stepModel); ok && m.err != nil {
		return m.err
	}
	return nil
}

// =============================================================================
// stepModel - Interactive layout stepping
// =============================================================================

// stepModel is the bubbletea model of the step command. out receives the
// print backend's output for the current figure.
type stepModel struct {
	figures []*figure.Figure
	out     *bytes.Buffer
	cur     int
	steps   int
	last    string
	done    bool
	err     error
}

func newStepModel(figures []*figure.Figure, out *bytes.Buffer) stepModel {
	return stepModel{figures: figures, out: out}
}

func (m stepModel) Init() tea.Cmd {
	return nil
}

func (m stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "n", " ", "enter":
		m.step(1)
	case "f":
		m.step(0)
	case "tab":
		m.next()
	}
	if m.err != nil {
		return m, tea.Quit
	}
	return m, nil
}

// step runs up to budget enabled layouts of the current figure, 0 meaning
// all, and draws it. A finished figure moves the cursor to the next one.
func (m *stepModel) step(budget int) {
	if m.done {
		return
	}
	f := m.figures[m.cur]
	s := f.Scheduler()
	if s.Done() {
		m.next()
		return
	}

	m.out.Reset()
	for {
		ran, err := f.Step(budget, budget, false)
		if err != nil {
			m.err = errors.Wrap(errors.GetCode(err), err, "figure %s", f.Label())
			return
		}
		if ran {
			m.steps++
			if l := s.Last(); l != nil {
				m.last = l.Key()
			}
		}
		if ran || s.Done() {
			return
		}
	}
}

// next moves to the following figure, or ends the session after the last.
func (m *stepModel) next() {
	if m.cur == len(m.figures)-1 {
		m.done = true
		return
	}
	m.cur++
	m.steps, m.last = 0, ""
	m.out.Reset()
}

func (m stepModel) View() string {
	var b strings.Builder
	f := m.figures[m.cur]
	s := f.Scheduler()

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Figure %d/%d: %s", m.cur+1, len(m.figures), f.Label())))
	b.WriteString("\n")
	status := fmt.Sprintf("%d layouts · rank %d · step %d", s.Len(), s.Rank(), m.steps)
	if m.last != "" {
		status += " · last " + m.last
	}
	if s.Done() {
		status += " · " + StyleSuccess.Render("done")
	}
	b.WriteString(stepHeaderStyle.Render(status))
	b.WriteString("\n")

	body := strings.TrimSpace(m.out.String())
	if body == "" {
		body = strings.TrimSpace(f.String())
	}
	if body == "" {
		body = StyleDim.Render("(no objects yet)")
	}
	b.WriteString(stepBodyStyle.Render(body))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(stepErrorStyle.Render(iconError + " " + errors.UserMessage(m.err)))
		b.WriteString("\n")
	}
	if m.done {
		b.WriteString(StyleDim.Render("all figures done · q quit"))
	} else {
		b.WriteString(StyleDim.Render("n next layout  f finish figure  tab next figure  q quit"))
	}
	return b.String()
}
