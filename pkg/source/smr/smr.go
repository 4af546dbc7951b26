// Package smr parses SWISS-MODEL repository feeds.
//
// Each modelled template chain becomes one row labeled "<template> <chain>".
// Aligned segments are drawn as given; they are never packed.
package smr

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/seqtracks/pkg/color"
	"github.com/matzehuels/seqtracks/pkg/container"
	"github.com/matzehuels/seqtracks/pkg/source"
	"github.com/matzehuels/seqtracks/pkg/track"
)

// Type tags every SMR accession.
const Type = "SMR"

// Color fills SMR fragments.
const Color = "#FF7F00"

// Label is the leaf label.
const Label = "Structural models"

// templatePattern matches "<pdb>.<assembly>" at the start of a template such
// as "1abc.1.A".
var templatePattern = regexp.MustCompile(`^(\w{4}\.\d+)\.`)

type response struct {
	Result struct {
		Structures []structure `json:"structures"`
	} `json:"result"`
}

type structure struct {
	Template    string  `json:"template"`
	Method      string  `json:"method"`
	Coordinates string  `json:"coordinates"`
	Coverage    float64 `json:"coverage"`
	Chains      []chain `json:"chains"`
}

type chain struct {
	ID       string    `json:"id"`
	Segments []segment `json:"segments"`
}

type segment struct {
	Uniprot struct {
		From source.Position `json:"from"`
		To   source.Position `json:"to"`
	} `json:"uniprot"`
}

// Parser parses SMR feed documents.
type Parser struct{}

// New returns an SMR parser.
func New() *Parser { return &Parser{} }

// Parse implements source.Parser. It returns nil when the feed reports an
// error or lists no structures.
func (p *Parser) Parse(_ context.Context, accession string, raw []byte) (container.Node, error) {
	if source.Empty(raw) {
		return nil, nil
	}
	var doc response
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("smr %s: %w", accession, err)
	}

	rows := rows(doc.Result.Structures)
	if len(rows) == 0 {
		return nil, nil
	}
	return container.NewLeaf(Label, rows), nil
}

// rows converts structures to one row per template chain. Chains without a
// single usable segment are dropped.
func rows(structures []structure) []track.Row {
	var out []track.Row
	for _, s := range structures {
		id := templateID(s.Template)
		for _, c := range s.Chains {
			frags := fragments(c.Segments)
			if len(frags) == 0 {
				continue
			}
			acc := track.Accession{
				Type:               Type,
				Color:              Color,
				ExperimentalMethod: s.Method,
				CoordinatesFile:    s.Coordinates,
				Coverage:           s.Coverage,
				Locations:          []track.Location{{Fragments: frags}},
			}
			out = append(out, track.Row{
				Label: label(id, c.ID),
				Data:  []track.Accession{acc},
			})
		}
	}
	return out
}

func fragments(segs []segment) []track.Fragment {
	var out []track.Fragment
	for _, s := range segs {
		start, end, ok := source.Span(s.Uniprot.From, s.Uniprot.To)
		if !ok {
			continue
		}
		out = append(out, track.Fragment{
			Start:       start,
			End:         end,
			FillColor:   Color,
			BorderColor: color.Border(Color),
		})
	}
	return out
}

func templateID(template string) string {
	m := templatePattern.FindStringSubmatch(template)
	if m == nil {
		return ""
	}
	return m[1]
}

func label(template, chainID string) string {
	c := strings.ToLower(chainID)
	if template == "" {
		return c
	}
	return template + " " + c
}
