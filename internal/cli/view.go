package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqtracks/pkg/container"
	"github.com/matzehuels/seqtracks/pkg/manager"
	"github.com/matzehuels/seqtracks/pkg/surface"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var opts loadOptions

	cmd := &cobra.Command{
		Use:   "view <accession>",
		Short: "Browse tracks interactively",
		Long: `Load tracks for an accession and browse them in the terminal.

Each track group starts collapsed, showing a single summary line. Select a
group and press enter to show its individual rows instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mem, res, err := c.loadTracks(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if len(res.Containers) == 0 {
				printSummary(res)
				return nil
			}
			_, err = tea.NewProgram(newViewModel(mem, res), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the response cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch feeds, ignoring cached responses")
	return cmd
}

// viewModel is the bubbletea model of the track viewer. Toggling a leaf
// goes through the leaf itself so the surface sees the same visibility
// commands a browser would.
type viewModel struct {
	mem       *surface.Memory
	accession string
	leaves    []*container.Leaf
	cursor    int
	width     int
}

func newViewModel(mem *surface.Memory, res *manager.Result) viewModel {
	m := viewModel{mem: mem, accession: res.Accession, width: 100}
	for _, c := range res.Containers {
		m.leaves = append(m.leaves, container.Collect(c.Node)...)
	}
	return m
}

func (m viewModel) Init() tea.Cmd { return nil }

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.leaves)-1 {
				m.cursor++
			}
		case "enter", " ":
			if len(m.leaves) > 0 {
				m.leaves[m.cursor].Toggle(m.mem)
			}
		case "e":
			m.setAll(true)
		case "c":
			m.setAll(false)
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 40)
	}
	return m, nil
}

func (m viewModel) setAll(expanded bool) {
	for _, l := range m.leaves {
		if l.Expanded() != expanded {
			l.Toggle(m.mem)
		}
	}
}

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s · %d residues", m.accession, m.mem.Length())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ⏎ expand/collapse  e expand all  c collapse all  q quit"))
	b.WriteString("\n\n")

	for i, l := range m.leaves {
		marker := "▸"
		if l.Expanded() {
			marker = "▾"
		}
		line := fmt.Sprintf("%s %s %s", cursorMark(i == m.cursor), marker, l.Label())
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d rows", len(l.Subtracks()))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(surface.RenderText(m.mem, surface.TextOptions{Width: m.width}))
	return b.String()
}

func cursorMark(selected bool) string {
	if selected {
		return ">"
	}
	return " "
}
