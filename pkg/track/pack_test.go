package track

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// depth returns the maximum number of fragments covering one position.
func depth(frags []Fragment) int {
	best := 0
	for _, f := range frags {
		n := 0
		for _, o := range frags {
			if o.Start <= f.Start && f.Start <= o.End {
				n++
			}
		}
		best = max(best, n)
	}
	return best
}

func spans(a Accession) [][2]int {
	var out [][2]int
	for _, f := range a.Fragments() {
		out = append(out, [2]int{f.Start, f.End})
	}
	return out
}

func TestPack(t *testing.T) {
	tests := []struct {
		name  string
		frags []Fragment
		want  [][][2]int
	}{
		{
			name:  "empty",
			frags: nil,
			want:  nil,
		},
		{
			name:  "single",
			frags: []Fragment{{Start: 3, End: 9}},
			want:  [][][2]int{{{3, 9}}},
		},
		{
			name:  "disjoint share a row",
			frags: []Fragment{{Start: 20, End: 30}, {Start: 1, End: 10}},
			want:  [][][2]int{{{1, 10}, {20, 30}}},
		},
		{
			name:  "adjacent share a row",
			frags: []Fragment{{Start: 1, End: 10}, {Start: 11, End: 20}},
			want:  [][][2]int{{{1, 10}, {11, 20}}},
		},
		{
			name:  "touching endpoints conflict",
			frags: []Fragment{{Start: 1, End: 10}, {Start: 10, End: 20}},
			want:  [][][2]int{{{1, 10}}, {{10, 20}}},
		},
		{
			name:  "identical intervals each get a row",
			frags: []Fragment{{Start: 5, End: 8}, {Start: 5, End: 8}, {Start: 5, End: 8}},
			want:  [][][2]int{{{5, 8}}, {{5, 8}}, {{5, 8}}},
		},
		{
			name: "first fit reuses earliest free row",
			frags: []Fragment{
				{Start: 1, End: 10},
				{Start: 2, End: 4},
				{Start: 5, End: 6},
				{Start: 11, End: 12},
			},
			want: [][][2]int{{{1, 10}, {11, 12}}, {{2, 4}, {5, 6}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPacker("DOMAIN")
			for _, f := range tt.frags {
				p.Add(f)
			}
			rows := p.Pack()

			var got [][][2]int
			for _, r := range rows {
				if r.Type != "DOMAIN" {
					t.Errorf("row type = %q, want DOMAIN", r.Type)
				}
				got = append(got, spans(r))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Pack() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPackMinimalAndNonOverlapping(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for iter := 0; iter < 200; iter++ {
		n := rng.IntN(40)
		frags := make([]Fragment, n)
		for i := range frags {
			start := 1 + rng.IntN(100)
			frags[i] = Fragment{Start: start, End: start + rng.IntN(25)}
		}

		p := NewPacker("X")
		for _, f := range frags {
			p.Add(f)
		}
		rows := p.Pack()

		if got, want := len(rows), depth(frags); got != want {
			t.Fatalf("iteration %d: rows = %d, want max depth %d", iter, got, want)
		}

		total := 0
		for _, r := range rows {
			fs := r.Fragments()
			total += len(fs)
			for i := 1; i < len(fs); i++ {
				if fs[i].Start <= fs[i-1].End {
					t.Fatalf("iteration %d: overlap in row: %v then %v", iter, fs[i-1], fs[i])
				}
			}
		}
		if total != n {
			t.Fatalf("iteration %d: packed %d fragments, want %d", iter, total, n)
		}
	}
}

func TestPackStability(t *testing.T) {
	t.Run("distinct starts ignore insertion order", func(t *testing.T) {
		frags := []Fragment{
			{Start: 1, End: 5}, {Start: 3, End: 9}, {Start: 6, End: 12}, {Start: 10, End: 11},
		}
		a, b := NewPacker("X"), NewPacker("X")
		for i := range frags {
			a.Add(frags[i])
			b.Add(frags[len(frags)-1-i])
		}
		if diff := cmp.Diff(a.Pack(), b.Pack()); diff != "" {
			t.Errorf("packing depends on insertion order (-a +b):\n%s", diff)
		}
	})

	t.Run("tied starts follow insertion order", func(t *testing.T) {
		p := NewPacker("X")
		p.Add(Fragment{Start: 1, End: 4, Tooltip: "first"})
		p.Add(Fragment{Start: 1, End: 9, Tooltip: "second"})
		rows := p.Pack()
		if len(rows) != 2 {
			t.Fatalf("rows = %d, want 2", len(rows))
		}
		if got := rows[0].Fragments()[0].Tooltip; got != "first" {
			t.Errorf("row 0 holds %q, want first", got)
		}
		if got := rows[1].Fragments()[0].Tooltip; got != "second" {
			t.Errorf("row 1 holds %q, want second", got)
		}
	})
}

func TestPackIdempotent(t *testing.T) {
	p := NewPacker("X").WithColor("#ff0000")
	p.Add(Fragment{Start: 8, End: 12})
	p.Add(Fragment{Start: 1, End: 10})

	first := p.Pack()
	second := p.Pack()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second Pack() differs:\n%s", diff)
	}
	if first[0].Color != "#ff0000" {
		t.Errorf("Color = %q, want #ff0000", first[0].Color)
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}
