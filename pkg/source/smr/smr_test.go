package smr

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/seqtracks/pkg/container"
	"github.com/matzehuels/seqtracks/pkg/track"
)

func TestParse(t *testing.T) {
	raw := []byte(`{"result":{"structures":[{
		"template":"1abc.1.A","method":"X-ray","coordinates":"https://example.org/1abc.pdb","coverage":0.42,
		"chains":[{"id":"A","segments":[{"uniprot":{"from":5,"to":50}}]}]
	}]}}`)

	node, err := New().Parse(context.Background(), "P05067", raw)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	leaf, ok := node.(*container.Leaf)
	if !ok {
		t.Fatalf("Parse() = %T, want *container.Leaf", node)
	}

	subs := leaf.Subtracks()
	if len(subs) != 1 {
		t.Fatalf("got %d subtracks, want 1", len(subs))
	}
	if subs[0].Label != "1abc.1 a" {
		t.Errorf("label = %q, want %q", subs[0].Label, "1abc.1 a")
	}
	if len(subs[0].Data) != 1 {
		t.Fatalf("got %d accessions, want 1", len(subs[0].Data))
	}

	acc := subs[0].Data[0]
	if acc.Type != Type {
		t.Errorf("type = %q, want %q", acc.Type, Type)
	}
	if acc.ExperimentalMethod != "X-ray" || acc.Coverage != 0.42 || acc.CoordinatesFile == "" {
		t.Errorf("structure fields not carried: %+v", acc)
	}
	if len(acc.Locations) != 1 {
		t.Fatalf("got %d locations, want 1", len(acc.Locations))
	}
	got := acc.Locations[0].Fragments
	want := []track.Fragment{{Start: 5, End: 50}}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b track.Fragment) bool {
		return a.Start == b.Start && a.End == b.End
	})); diff != "" {
		t.Errorf("fragments mismatch:\n%s", diff)
	}
}

func TestParseSegmentsNotPacked(t *testing.T) {
	raw := []byte(`{"result":{"structures":[{"template":"2xyz.3.B",
		"chains":[
			{"id":"B","segments":[{"uniprot":{"from":1,"to":10}},{"uniprot":{"from":5,"to":20}}]},
			{"id":"C","segments":[{"uniprot":{"from":30,"to":40}}]}
		]}]}}`)

	node, err := New().Parse(context.Background(), "P1", raw)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	leaf := node.(*container.Leaf)

	if diff := cmp.Diff([]string{"2xyz.3 b", "2xyz.3 c"}, leaf.Labels()); diff != "" {
		t.Errorf("labels mismatch:\n%s", diff)
	}
	frags := leaf.Subtracks()[0].Data[0].Fragments()
	if len(frags) != 2 {
		t.Errorf("overlapping segments should share one location, got %d fragments", len(frags))
	}
	if n := len(leaf.Main().Data); n != 2 {
		t.Errorf("main track has %d accessions, want 2", n)
	}
}

func TestParseEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"error message", `{"errorMessage":"no models"}`},
		{"no structures", `{"result":{"structures":[]}}`},
		{"no usable segments", `{"result":{"structures":[{"template":"1abc.1.A","chains":[{"id":"A","segments":[{"uniprot":{"from":"?","to":9}}]}]}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := New().Parse(context.Background(), "P1", []byte(tt.raw))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if node != nil {
				t.Errorf("Parse() = %v, want nil", node)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := New().Parse(context.Background(), "P1", []byte(`{"result":`)); err == nil {
		t.Error("Parse() should fail on truncated JSON")
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		template, chain, want string
	}{
		{"1abc.1.A", "A", "1abc.1 a"},
		{"5xyz.12.B", "B", "5xyz.12 b"},
		{"unmatched", "C", "c"},
		{"", "D", "d"},
	}
	for _, tt := range tests {
		if got := label(templateID(tt.template), tt.chain); got != tt.want {
			t.Errorf("label(%q, %q) = %q, want %q", tt.template, tt.chain, got, tt.want)
		}
	}
}
