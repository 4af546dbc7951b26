package pdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/seqtracks/pkg/container"
	"github.com/matzehuels/seqtracks/pkg/feeds"
	"github.com/matzehuels/seqtracks/pkg/track"
)

const bestStructures = `{"P05067":[
	{"pdb_id":"1aap","chain_id":"A","start":1,"end":100,"unp_start":101,"unp_end":200,"experimental_method":"X-ray diffraction","coverage":0.13},
	{"pdb_id":"2fma","chain_id":"B","start":1,"end":50,"unp_start":1,"unp_end":50,"experimental_method":"NMR","coverage":0.07}
]}`

func coverage(pdb, chain string, ranges ...[2]int) string {
	var obs []string
	for _, r := range ranges {
		obs = append(obs, fmt.Sprintf(`{"start":{"residue_number":%d},"end":{"residue_number":%d}}`, r[0], r[1]))
	}
	return fmt.Sprintf(`{"%s":{"molecules":[{"chains":[{"chain_id":"%s","observed":[%s]}]}]}}`,
		pdb, chain, strings.Join(obs, ","))
}

type stubFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, url)
	body, ok := s.pages[url]
	if !ok {
		return nil, feeds.ErrNotFound
	}
	return []byte(body), nil
}

const testURL = "https://cov/{pdb}/{chain}"

func spans(frags []track.Fragment) [][2]int {
	var out [][2]int
	for _, f := range frags {
		out = append(out, [2]int{f.Start, f.End})
	}
	return out
}

func TestParse(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"https://cov/1aap/A": coverage("1aap", "A", [2]int{10, 20}, [2]int{50, 60}),
		"https://cov/2fma/B": coverage("2fma", "B", [2]int{1, 50}),
	}}

	node, err := New(f, testURL).Parse(context.Background(), "P05067", []byte(bestStructures))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	leaf := node.(*container.Leaf)

	if diff := cmp.Diff([]string{"1aap A", "2fma B"}, leaf.Labels()); diff != "" {
		t.Errorf("labels mismatch:\n%s", diff)
	}
	if len(f.calls) != 2 {
		t.Errorf("got %d coverage requests, want 2", len(f.calls))
	}

	acc := leaf.Subtracks()[0].Data[0]
	if acc.Type != Type || acc.UniprotStart != 101 || acc.UniprotEnd != 200 || acc.PDBStart != 1 || acc.PDBEnd != 100 {
		t.Errorf("accession fields = %+v", acc)
	}
	loc := acc.Locations[0]
	if loc.RefStart != 101 || loc.RefEnd != 200 {
		t.Errorf("ref range = [%d,%d], want [101,200]", loc.RefStart, loc.RefEnd)
	}

	// Residues 10-20 and 50-60 shift by +100.
	want := [][2]int{{101, 109}, {110, 120}, {121, 149}, {150, 160}, {161, 200}}
	if diff := cmp.Diff(want, spans(loc.Fragments)); diff != "" {
		t.Errorf("fragments mismatch:\n%s", diff)
	}
	for _, fr := range loc.Fragments {
		wantFill := UnobservedColor
		if fr.Start == 110 || fr.Start == 150 {
			wantFill = ObservedColor
		}
		if fr.FillColor != wantFill {
			t.Errorf("fragment %d-%d fill = %s, want %s", fr.Start, fr.End, fr.FillColor, wantFill)
		}
	}

	full := leaf.Subtracks()[1].Data[0].Locations[0].Fragments
	if diff := cmp.Diff([][2]int{{1, 50}}, spans(full)); diff != "" {
		t.Errorf("fully observed chain mismatch:\n%s", diff)
	}
}

func TestParseClipsToReferenceRange(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"https://cov/1aap/A": coverage("1aap", "A", [2]int{-5, 30}, [2]int{90, 140}),
		"https://cov/2fma/B": coverage("2fma", "B", [2]int{60, 70}),
	}}

	node, err := New(f, testURL).Parse(context.Background(), "P05067", []byte(bestStructures))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	leaf := node.(*container.Leaf)

	got := spans(leaf.Subtracks()[0].Data[0].Locations[0].Fragments)
	want := [][2]int{{101, 130}, {131, 189}, {190, 200}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("clipped fragments mismatch:\n%s", diff)
	}

	if locs := leaf.Subtracks()[1].Data[0].Locations; len(locs) != 0 {
		t.Errorf("chain with nothing observed in range should have no locations, got %v", locs)
	}
}

func TestParseBarrierFailsWholeSource(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"https://cov/1aap/A": coverage("1aap", "A", [2]int{1, 100}),
	}}

	node, err := New(f, testURL).Parse(context.Background(), "P05067", []byte(bestStructures))
	if err == nil {
		t.Fatal("Parse() should fail when one coverage lookup fails")
	}
	if !errors.Is(err, feeds.ErrNotFound) {
		t.Errorf("error = %v, want wrapped ErrNotFound", err)
	}
	if node != nil {
		t.Errorf("Parse() = %v, want nil", node)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, raw := range []string{`{}`, `{"P05067":[]}`, `{"error":"not found"}`} {
		node, err := New(&stubFetcher{}, testURL).Parse(context.Background(), "P05067", []byte(raw))
		if err != nil || node != nil {
			t.Errorf("Parse(%s) = %v, %v; want nil, nil", raw, node, err)
		}
	}
}

func TestCoverageURL(t *testing.T) {
	p := New(nil, "")
	want := "https://www.ebi.ac.uk/pdbe/api/pdb/entry/polymer_coverage/1aap/chain/A"
	if got := p.CoverageURL("1AAP", "A"); got != want {
		t.Errorf("CoverageURL() = %q, want %q", got, want)
	}
}
