// Package pdb parses PDBe best-structure feeds.
//
// Every chain mapped to the accession becomes one row labeled
// "<pdb> <chain>". The residues a chain actually resolves are looked up with
// one coverage request per chain; the remainder of the chain's reference
// range is drawn as unobserved. The coverage requests form a barrier: if any
// of them fails the whole feed fails.
package pdb

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/seqtracks/pkg/color"
	"github.com/matzehuels/seqtracks/pkg/container"
	"github.com/matzehuels/seqtracks/pkg/feeds"
	"github.com/matzehuels/seqtracks/pkg/source"
	"github.com/matzehuels/seqtracks/pkg/track"
)

const (
	// Type tags every PDB accession.
	Type = "PDB"

	// Label is the leaf label.
	Label = "Experimental structures"

	// ObservedColor fills residues resolved in the structure.
	ObservedColor = "#2E86C1"

	// UnobservedColor fills residues of the chain missing from the structure.
	UnobservedColor = "#DDDDDD"

	// DefaultCoverageURL is the per-chain coverage endpoint.
	DefaultCoverageURL = "https://www.ebi.ac.uk/pdbe/api/pdb/entry/polymer_coverage/{pdb}/chain/{chain}"
)

// maxInflight caps concurrent coverage requests for one accession.
const maxInflight = 8

type record struct {
	PDBID              string  `json:"pdb_id"`
	ChainID            string  `json:"chain_id"`
	Start              int     `json:"start"`
	End                int     `json:"end"`
	UnpStart           int     `json:"unp_start"`
	UnpEnd             int     `json:"unp_end"`
	ExperimentalMethod string  `json:"experimental_method"`
	Coverage           float64 `json:"coverage"`
}

type coverageDoc map[string]struct {
	Molecules []struct {
		Chains []struct {
			ChainID  string `json:"chain_id"`
			Observed []struct {
				Start residue `json:"start"`
				End   residue `json:"end"`
			} `json:"observed"`
		} `json:"chains"`
	} `json:"molecules"`
}

type residue struct {
	Number int `json:"residue_number"`
}

// Parser parses best-structure documents. It needs a fetcher for the
// per-chain coverage lookups.
type Parser struct {
	fetch       feeds.Fetcher
	coverageURL string
}

// New returns a PDB parser. An empty coverageURL selects DefaultCoverageURL;
// otherwise it must contain the {pdb} and {chain} placeholders.
func New(fetch feeds.Fetcher, coverageURL string) *Parser {
	if coverageURL == "" {
		coverageURL = DefaultCoverageURL
	}
	return &Parser{fetch: fetch, coverageURL: coverageURL}
}

// Parse implements source.Parser.
func (p *Parser) Parse(ctx context.Context, accession string, raw []byte) (container.Node, error) {
	if source.Empty(raw) {
		return nil, nil
	}
	var doc map[string][]record
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("pdb %s: %w", accession, err)
	}

	records := doc[accession]
	if records == nil && len(doc) == 1 {
		for _, rs := range doc {
			records = rs
		}
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]track.Row, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInflight)
	for i, rec := range records {
		g.Go(func() error {
			observed, err := p.observed(gctx, rec)
			if err != nil {
				return fmt.Errorf("pdb %s chain %s: %w", rec.PDBID, rec.ChainID, err)
			}
			rows[i] = chainRow(rec, observed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return container.NewLeaf(Label, rows), nil
}

// CoverageURL expands the coverage template for one chain.
func (p *Parser) CoverageURL(pdbID, chainID string) string {
	return strings.NewReplacer("{pdb}", strings.ToLower(pdbID), "{chain}", chainID).Replace(p.coverageURL)
}

// observed fetches the resolved residue ranges of rec's chain and maps them
// into reference coordinates.
func (p *Parser) observed(ctx context.Context, rec record) ([]track.Fragment, error) {
	raw, err := p.fetch.Fetch(ctx, p.CoverageURL(rec.PDBID, rec.ChainID))
	if err != nil {
		return nil, err
	}
	var doc coverageDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode coverage: %w", err)
	}

	offset := rec.UnpStart - rec.Start
	var out []track.Fragment
	for _, entry := range doc {
		for _, m := range entry.Molecules {
			for _, c := range m.Chains {
				if c.ChainID != rec.ChainID {
					continue
				}
				for _, o := range c.Observed {
					start := max(o.Start.Number+offset, rec.UnpStart)
					end := min(o.End.Number+offset, rec.UnpEnd)
					if start > end {
						continue
					}
					out = append(out, track.Fragment{
						Start:       start,
						End:         end,
						FillColor:   ObservedColor,
						BorderColor: color.Border(ObservedColor),
						Tooltip:     "observed",
					})
				}
			}
		}
	}
	slices.SortStableFunc(out, byStart)
	return out, nil
}

func chainRow(rec record, observed []track.Fragment) track.Row {
	frags := slices.Clone(observed)
	for _, g := range track.ComputeGaps(observed, rec.UnpStart, rec.UnpEnd) {
		g.FillColor = UnobservedColor
		g.BorderColor = color.Border(UnobservedColor)
		g.Tooltip = "unobserved"
		frags = append(frags, g)
	}
	slices.SortStableFunc(frags, byStart)

	acc := track.Accession{
		Type:               Type,
		Color:              ObservedColor,
		ExperimentalMethod: rec.ExperimentalMethod,
		Coverage:           rec.Coverage,
		PDBStart:           rec.Start,
		PDBEnd:             rec.End,
		UniprotStart:       rec.UnpStart,
		UniprotEnd:         rec.UnpEnd,
	}
	if len(frags) > 0 {
		acc.Locations = []track.Location{{
			Fragments: frags,
			RefStart:  rec.UnpStart,
			RefEnd:    rec.UnpEnd,
		}}
	}
	return track.Row{
		Label: rec.PDBID + " " + rec.ChainID,
		Data:  []track.Accession{acc},
	}
}

func byStart(a, b track.Fragment) int { return cmp.Compare(a.Start, b.Start) }
