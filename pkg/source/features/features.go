// Package features parses generic sequence-feature feeds.
//
// Features are grouped by category and then by type, both in order of first
// appearance. Each type is packed into the fewest non-overlapping rows. A
// category becomes one leaf whose subtracks are its packed types, and every
// category leaf is wrapped in a single composite.
package features

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/seqtracks/pkg/color"
	"github.com/matzehuels/seqtracks/pkg/container"
	"github.com/matzehuels/seqtracks/pkg/metadata"
	"github.com/matzehuels/seqtracks/pkg/source"
	"github.com/matzehuels/seqtracks/pkg/track"
)

// Label is the composite label.
const Label = "Features"

type feature struct {
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Begin       source.Position `json:"begin"`
	End         source.Position `json:"end"`
	Description string          `json:"description"`
}

type response struct {
	Features []feature `json:"features"`
}

// Parser parses feature feed documents using a metadata table for labels and
// styling.
type Parser struct {
	meta *metadata.Table
}

// New returns a features parser. A nil table selects metadata.Default.
func New(meta *metadata.Table) *Parser {
	if meta == nil {
		meta = metadata.Default()
	}
	return &Parser{meta: meta}
}

// Parse implements source.Parser.
func (p *Parser) Parse(_ context.Context, accession string, raw []byte) (container.Node, error) {
	if source.Empty(raw) {
		return nil, nil
	}
	var doc response
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("features %s: %w", accession, err)
	}
	return p.build(doc.Features), nil
}

// category is an ordered group of packers keyed by type.
type category struct {
	key     string
	order   []string
	packers map[string]*track.Packer
}

func (p *Parser) build(features []feature) container.Node {
	var cats []*category
	index := make(map[string]*category)

	for i, f := range features {
		start, end, ok := source.Span(f.Begin, f.End)
		if !ok {
			continue
		}
		c, ok := index[f.Category]
		if !ok {
			c = &category{key: f.Category, packers: make(map[string]*track.Packer)}
			index[f.Category] = c
			cats = append(cats, c)
		}
		pk, ok := c.packers[f.Type]
		if !ok {
			pk = p.packer(f.Type)
			c.packers[f.Type] = pk
			c.order = append(c.order, f.Type)
		}
		pk.Add(p.fragment(i, f.Type, start, end, f.Description))
	}
	if len(cats) == 0 {
		return nil
	}

	leaves := make([]container.Node, 0, len(cats))
	for _, c := range cats {
		rows := make([]track.Row, 0, len(c.order))
		for _, typ := range c.order {
			rows = append(rows, track.Row{
				Label: p.meta.TypeLabel(typ),
				Data:  c.packers[typ].Pack(),
			})
		}
		leaves = append(leaves, container.NewLeaf(p.meta.CategoryLabel(c.key), rows))
	}
	return container.NewComposite(Label, leaves...)
}

func (p *Parser) packer(typ string) *track.Packer {
	pk := track.NewPacker(typ)
	if m, ok := p.meta.Type(typ); ok {
		pk.WithColor(m.Color)
	}
	return pk
}

func (p *Parser) fragment(id int, typ string, start, end int, desc string) track.Fragment {
	f := track.Fragment{ID: id, Start: start, End: end, Tooltip: desc, BorderColor: color.DefaultBorder}
	if m, ok := p.meta.Type(typ); ok {
		f.FillColor = m.Color
		f.BorderColor = color.Border(m.Color)
		f.Shape = m.Shape
	}
	return f
}
