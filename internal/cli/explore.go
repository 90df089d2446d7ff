package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/link"
	"github.com/matzehuels/chartcore/pkg/spec"
)

// exploreCommand creates the explore command for interactive chart inspection.
func (c *CLI) exploreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore [spec.toml|spec.json]",
		Short: "Explore a chart interactively in the terminal",
		Long: `Explore a chart interactively in the terminal.

The explore command mounts a live chart instance and walks its tooltip
through the categories, showing the resolved payload for each index.
The brush window can be narrowed and widened to see how the axis
domains react.

Keys:
  ←/→, h/l   move the active category
  [/]        narrow/widen the brush window
  q          quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(args[0])
		},
	}
	return cmd
}

func (c *CLI) runExplore(input string) error {
	cs, err := spec.Load(input)
	if err != nil {
		return fmt.Errorf("load spec %s: %w", input, err)
	}

	ch, err := chart.New(cs, chart.Options{Hub: link.NewHub(), Logger: c.Logger})
	if err != nil {
		return fmt.Errorf("mount chart: %w", err)
	}
	defer ch.Close()

	model := newExploreModel(input, ch)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("run explorer: %w", err)
	}
	return nil
}

// =============================================================================
// ExploreModel - Interactive chart walkthrough
// =============================================================================

var (
	exploreSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	exploreDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreModel is the bubbletea model for chart exploration.
type exploreModel struct {
	title  string
	chart  *chart.Chart
	cursor int
}

func newExploreModel(title string, ch *chart.Chart) exploreModel {
	cursor := 0
	if st := ch.Tooltip(); st.Active {
		cursor = st.Index
	}
	return exploreModel{title: title, chart: ch, cursor: cursor}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

// tickCount returns the number of resolvable categories in the current window.
func (m exploreModel) tickCount() int {
	b := m.chart.Bundle()
	if b == nil || b.Resolver() == nil {
		return 0
	}
	return len(b.Resolver().Ticks)
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < m.tickCount()-1 {
				m.cursor++
			}
		case "[":
			w := m.chart.Window()
			if w.EndIndex > w.StartIndex {
				m.chart.SetWindow(spec.Window{StartIndex: w.StartIndex, EndIndex: w.EndIndex - 1})
				if n := m.tickCount(); m.cursor >= n && n > 0 {
					m.cursor = n - 1
				}
			}
		case "]":
			w := m.chart.Window()
			m.chart.SetWindow(spec.Window{StartIndex: w.StartIndex, EndIndex: w.EndIndex + 1})
		}
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore " + m.title))
	b.WriteString("\n")
	b.WriteString(exploreDimStyle.Render("←/→ move  [/] window  q quit"))
	b.WriteString("\n\n")

	bundle := m.chart.Bundle()
	if bundle == nil || bundle.Resolver() == nil {
		b.WriteString(StyleWarning.Render("chart has no resolvable layout"))
		b.WriteString("\n")
		return b.String()
	}

	res := bundle.Resolver()
	w := m.chart.Window()
	b.WriteString(exploreDimStyle.Render(fmt.Sprintf("window [%d, %d] · %d categories", w.StartIndex, w.EndIndex, len(res.Ticks))))
	b.WriteString("\n\n")

	// Category strip
	for i := range res.Ticks {
		st := res.ResolveIndex(i)
		label := fmt.Sprintf("%v", st.Label)
		if i == m.cursor {
			b.WriteString(exploreSelectedStyle.Render("▸ " + label))
		} else {
			b.WriteString(exploreNormalStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Payload for the active category
	st := res.ResolveIndex(m.cursor)
	if !st.Active {
		b.WriteString(exploreDimStyle.Render("no payload"))
		b.WriteString("\n")
		return b.String()
	}
	for _, entry := range st.Payload {
		key := lipgloss.NewStyle().Foreground(colorGray).Width(14).Render(entry.SeriesKey)
		b.WriteString("  " + key + " " + StyleValue.Render(fmt.Sprintf("%v", entry.Value)))
		b.WriteString("\n")
	}

	return b.String()
}
