// Package track defines the interval model shared by every annotation source.
//
// # Core Types
//
//   - [Fragment]: one contiguous annotated span with optional styling
//   - [Location]: an ordered, possibly discontinuous, set of fragments
//   - [Accession]: one display row of an annotated entity
//   - [Row]: a labeled group of accessions, the unit a parser emits
//
// Values are built once by a parser and treated as read-only afterwards.
//
// # Packing
//
// [Packer] assigns overlapping fragments of one type to the fewest
// non-overlapping rows. Fragments are stably sorted by start, then each one is
// placed in the first row whose last fragment ends strictly before it begins:
//
//	p := track.NewPacker("DOMAIN")
//	p.Add(track.Fragment{Start: 1, End: 10})
//	p.Add(track.Fragment{Start: 5, End: 20})
//	rows := p.Pack() // two accessions
//
// Because fragments are visited in start order, the row count always equals
// the maximum number of fragments covering a single position.
//
// # Gaps
//
// [ComputeGaps] returns the spans of a reference range not covered by a set of
// observed fragments; together they tile the range exactly.
package track
