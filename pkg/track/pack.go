package track

import (
	"cmp"
	"slices"
)

// Packer collects fragments of one semantic type and lays them out in the
// fewest rows such that no two fragments in a row overlap.
//
// A Packer is not safe for concurrent use; each parser owns its packers.
type Packer struct {
	typ   string
	color string
	frags []Fragment
}

// NewPacker returns an empty packer whose rows are tagged with typ.
func NewPacker(typ string) *Packer {
	return &Packer{typ: typ}
}

// WithColor sets the accession color applied to every packed row.
func (p *Packer) WithColor(color string) *Packer {
	p.color = color
	return p
}

// Type returns the accession type tag of the packed rows.
func (p *Packer) Type() string { return p.typ }

// Add appends f to the buffer. Order of calls only matters for fragments that
// share a start position.
func (p *Packer) Add(f Fragment) {
	p.frags = append(p.frags, f)
}

// Len returns the number of buffered fragments.
func (p *Packer) Len() int { return len(p.frags) }

// Pack returns one accession per row. Each fragment becomes its own location,
// and locations within a row are in ascending start order.
//
// Pack does not modify the buffer, so repeated calls return equal results.
func (p *Packer) Pack() []Accession {
	if len(p.frags) == 0 {
		return nil
	}

	sorted := slices.Clone(p.frags)
	slices.SortStableFunc(sorted, func(a, b Fragment) int {
		return cmp.Compare(a.Start, b.Start)
	})

	var rows []Accession
	var ends []int
	for _, f := range sorted {
		row := firstFit(ends, f.Start)
		if row < 0 {
			rows = append(rows, Accession{Type: p.typ, Color: p.color})
			ends = append(ends, 0)
			row = len(rows) - 1
		}
		rows[row].Locations = append(rows[row].Locations, Location{Fragments: []Fragment{f}})
		ends[row] = f.End
	}
	return rows
}

// firstFit returns the index of the first row whose last end lies strictly
// before start, or -1.
func firstFit(ends []int, start int) int {
	for i, end := range ends {
		if end < start {
			return i
		}
	}
	return -1
}
