// Package proteomics parses observed-peptide feeds.
//
// Peptides are split by uniqueness into two fixed rows, "Unique peptide" and
// "Non-unique peptide". Both rows are always present so the layout is stable
// across accessions; an empty bucket is a row with no accessions.
package proteomics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/seqtracks/pkg/color"
	"github.com/matzehuels/seqtracks/pkg/container"
	"github.com/matzehuels/seqtracks/pkg/source"
	"github.com/matzehuels/seqtracks/pkg/track"
)

// Display defaults for proteomics tracks.
const (
	Type           = "PROTEOMICS"
	Label          = "Proteomics"
	UniqueLabel    = "Unique peptide"
	NonUniqueLabel = "Non-unique peptide"
	UniqueColor    = "#8B0000"
	NonUniqueColor = "#E9967A"
)

type response struct {
	Features []struct {
		Begin   source.Position `json:"begin"`
		End     source.Position `json:"end"`
		Unique  bool            `json:"unique"`
		Peptide string          `json:"peptide"`
	} `json:"features"`
}

// Parser parses proteomics feed documents.
type Parser struct{}

// New returns a proteomics parser.
func New() *Parser { return &Parser{} }

// Parse implements source.Parser.
func (p *Parser) Parse(_ context.Context, accession string, raw []byte) (container.Node, error) {
	if source.Empty(raw) {
		return nil, nil
	}
	var doc response
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("proteomics %s: %w", accession, err)
	}
	if len(doc.Features) == 0 {
		return nil, nil
	}

	unique := bucket{color: UniqueColor}
	shared := bucket{color: NonUniqueColor}
	for i, f := range doc.Features {
		start, end, ok := source.Span(f.Begin, f.End)
		if !ok {
			continue
		}
		b := &shared
		if f.Unique {
			b = &unique
		}
		b.add(track.Fragment{ID: i, Start: start, End: end, Tooltip: f.Peptide})
	}

	rows := []track.Row{
		{Label: UniqueLabel, Data: unique.accessions()},
		{Label: NonUniqueLabel, Data: shared.accessions()},
	}
	return container.NewLeaf(Label, rows), nil
}

type bucket struct {
	color string
	locs  []track.Location
}

func (b *bucket) add(f track.Fragment) {
	f.FillColor = b.color
	f.BorderColor = color.Border(b.color)
	b.locs = append(b.locs, track.Location{Fragments: []track.Fragment{f}})
}

func (b *bucket) accessions() []track.Accession {
	if len(b.locs) == 0 {
		return nil
	}
	return []track.Accession{{Type: Type, Color: b.color, Locations: b.locs}}
}
