package cli

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqtracks/internal/config"
	"github.com/matzehuels/seqtracks/pkg/source/builtin"
)

// sourcesCommand lists every built-in source and whether it is enabled.
func (c *CLI) sourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List annotation sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(sourcesTable(cfg))
			return nil
		},
	}
}

func sourcesTable(cfg config.Config) string {
	var rows [][]string
	for _, name := range builtin.Names {
		endpoint := cfg.Endpoints[name]
		if endpoint == "" {
			endpoint = builtin.DefaultEndpoints[name]
		}
		enabled := ""
		if slices.Contains(cfg.Sources, name) {
			enabled = iconSuccess
		}
		rows = append(rows, []string{name, enabled, endpoint})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Source", "On", "Endpoint").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && rows[row][1] == "" {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			if col == 1 {
				return styleIconSuccess
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
