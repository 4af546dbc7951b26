// Package antigen parses antigenic-region feeds into a single row.
package antigen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/seqtracks/pkg/color"
	"github.com/matzehuels/seqtracks/pkg/container"
	"github.com/matzehuels/seqtracks/pkg/source"
	"github.com/matzehuels/seqtracks/pkg/track"
)

// Display defaults for antigen tracks.
const (
	Type  = "ANTIGEN"
	Label = "Antigenic sequences"
	Color = "#996633"
)

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Begin source.Position `json:"begin"`
	End   source.Position `json:"end"`
	Xrefs []struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	} `json:"xrefs"`
}

// Parser parses antigen feed documents.
type Parser struct{}

// New returns an antigen parser.
func New() *Parser { return &Parser{} }

// Parse implements source.Parser. Regions map one to one onto fragments of a
// single accession.
func (p *Parser) Parse(_ context.Context, accession string, raw []byte) (container.Node, error) {
	if source.Empty(raw) {
		return nil, nil
	}
	var doc response
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("antigen %s: %w", accession, err)
	}

	var locs []track.Location
	for i, f := range doc.Features {
		start, end, ok := source.Span(f.Begin, f.End)
		if !ok {
			continue
		}
		locs = append(locs, track.Location{Fragments: []track.Fragment{{
			ID:          i,
			Start:       start,
			End:         end,
			FillColor:   Color,
			BorderColor: color.Border(Color),
			Tooltip:     tooltip(f),
		}}})
	}
	if len(locs) == 0 {
		return nil, nil
	}

	row := track.Row{
		Label: "Antigen",
		Data:  []track.Accession{{Type: Type, Color: Color, Locations: locs}},
	}
	return container.NewLeaf(Label, []track.Row{row}), nil
}

func tooltip(f feature) string {
	var refs []string
	for _, x := range f.Xrefs {
		refs = append(refs, strings.TrimSpace(x.Name+" "+x.ID))
	}
	return strings.Join(refs, ", ")
}
