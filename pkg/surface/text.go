package surface

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/seqtracks/pkg/container"
	"github.com/matzehuels/seqtracks/pkg/track"
)

// TextOptions configures RenderText.
type TextOptions struct {
	// Width is the total line width. Zero selects 100.
	Width int

	// ShowHidden also draws collapsed subtracks and hidden main tracks.
	ShowHidden bool
}

const (
	labelWidth   = 28
	defaultWidth = 100
	minBar       = 10
	fillGlyph    = "█"
	emptyGlyph   = "·"
	defaultFill  = "#888888"
)

var (
	styleGroup = lipgloss.NewStyle().Bold(true)
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleRuler = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderText draws the visible element tree of m as one line per packed row.
// Positions are scaled to the bar width; a fragment always covers at least
// one cell.
func RenderText(m *Memory, opts TextOptions) string {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	bar := max(width-labelWidth-1, minBar)
	length := m.Length()
	if length <= 0 {
		length = maxEnd(m)
	}

	var b strings.Builder
	b.WriteString(ruler(length, bar))

	hiddenDepth := -1
	m.Walk(func(n *Node, depth int) {
		if hiddenDepth >= 0 && depth > hiddenDepth {
			return
		}
		hiddenDepth = -1
		if !n.Visible && !opts.ShowHidden {
			hiddenDepth = depth
			return
		}

		indent := strings.Repeat("  ", depth)
		if n.Kind == container.KindGroup {
			b.WriteString(styleGroup.Render(truncate(indent+n.Label, width)))
			b.WriteByte('\n')
			return
		}
		label := truncate(indent+n.Label, labelWidth)
		if len(n.Data) == 0 {
			b.WriteString(pad(label) + " " + styleEmpty.Render(strings.Repeat(emptyGlyph, bar)) + "\n")
			return
		}
		for i, acc := range n.Data {
			if i > 0 {
				label = ""
			}
			b.WriteString(pad(label) + " " + drawRow(acc, length, bar) + "\n")
		}
	})
	return b.String()
}

func ruler(length, bar int) string {
	if length <= 0 {
		return ""
	}
	left, right := "1", fmt.Sprint(length)
	gap := max(bar-len(left)-len(right), 1)
	return pad("") + " " + styleRuler.Render(left+strings.Repeat(" ", gap)+right) + "\n"
}

// drawRow renders the fragments of one accession onto a bar of cells.
func drawRow(acc track.Accession, length, cells int) string {
	colors := make([]string, cells)
	for _, f := range acc.Fragments() {
		from, to := cell(f.Start, length, cells), cell(f.End, length, cells)
		fill := f.FillColor
		if fill == "" {
			fill = acc.Color
		}
		if fill == "" {
			fill = defaultFill
		}
		for c := from; c <= to; c++ {
			colors[c] = fill
		}
	}

	var b strings.Builder
	for i := 0; i < cells; {
		j := i
		for j < cells && colors[j] == colors[i] {
			j++
		}
		if colors[i] == "" {
			b.WriteString(styleEmpty.Render(strings.Repeat(emptyGlyph, j-i)))
		} else {
			st := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i]))
			b.WriteString(st.Render(strings.Repeat(fillGlyph, j-i)))
		}
		i = j
	}
	return b.String()
}

// cell maps a 1-based position onto [0, cells).
func cell(pos, length, cells int) int {
	if length <= 0 {
		return 0
	}
	c := (pos - 1) * cells / length
	return min(max(c, 0), cells-1)
}

func maxEnd(m *Memory) int {
	end := 0
	m.Walk(func(n *Node, _ int) {
		for _, acc := range n.Data {
			for _, f := range acc.Fragments() {
				end = max(end, f.End)
			}
		}
	})
	return end
}

func pad(label string) string {
	return styleLabel.Render(label + strings.Repeat(" ", max(labelWidth-lipgloss.Width(label), 0)))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
