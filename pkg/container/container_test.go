package container

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/seqtracks/pkg/track"
)

type recorder struct {
	events  []string
	parent  map[string]string
	visible map[string]bool
	data    map[string][]track.Accession
}

func newRecorder() *recorder {
	return &recorder{
		parent:  map[string]string{},
		visible: map[string]bool{},
		data:    map[string][]track.Accession{},
	}
}

func (r *recorder) Attach(parent string, el Element) {
	r.parent[el.ID] = parent
	r.events = append(r.events, fmt.Sprintf("attach %s %s", el.Kind, el.Label))
}

func (r *recorder) SetVisible(id string, visible bool) { r.visible[id] = visible }

func (r *recorder) SetData(id string, data []track.Accession) {
	r.data[id] = data
	r.events = append(r.events, "data")
}

func rows() []track.Row {
	return []track.Row{
		{Label: "1abc a", Data: []track.Accession{{Type: "SMR"}}},
		{Label: "2xyz b", Data: []track.Accession{{Type: "SMR"}, {Type: "SMR"}}},
	}
}

func TestNewLeaf(t *testing.T) {
	l := NewLeaf("Structures", rows())

	if got := len(l.Main().Data); got != 3 {
		t.Errorf("main track has %d accessions, want merged 3", got)
	}
	if diff := cmp.Diff([]string{"1abc a", "2xyz b"}, l.Labels()); diff != "" {
		t.Errorf("Labels() mismatch:\n%s", diff)
	}
	if l.Expanded() {
		t.Error("new leaf should start collapsed")
	}

	first := NewLeaf("Structures", rows(), WithFirstRowMain())
	if got := len(first.Main().Data); got != 1 {
		t.Errorf("first-row main has %d accessions, want 1", got)
	}
}

func TestMountAndToggle(t *testing.T) {
	l := NewLeaf("Structures", rows())
	r := newRecorder()
	Mount(l, r, "")

	if r.parent[l.ID()] != "" {
		t.Error("leaf group should attach to the root")
	}
	if r.parent[l.Main().ID] != l.ID() {
		t.Error("main track should attach to the leaf group")
	}
	if !r.visible[l.Main().ID] {
		t.Error("main track should start visible")
	}
	for _, s := range l.Subtracks() {
		if r.visible[s.ID] {
			t.Errorf("subtrack %q should start hidden", s.Label)
		}
	}

	l.Toggle(r)
	if !l.Expanded() || r.visible[l.Main().ID] {
		t.Error("expanded leaf should hide the main track")
	}
	for _, s := range l.Subtracks() {
		if !r.visible[s.ID] {
			t.Errorf("subtrack %q should be visible when expanded", s.Label)
		}
	}

	l.Toggle(r)
	if l.Expanded() || !r.visible[l.Main().ID] {
		t.Error("second toggle should collapse again")
	}
	for _, s := range l.Subtracks() {
		if r.visible[s.ID] {
			t.Errorf("subtrack %q should be hidden after collapsing", s.Label)
		}
	}
}

func TestCompositeOrderAndPopulate(t *testing.T) {
	a := NewLeaf("A", []track.Row{{Label: "a1"}})
	b := NewLeaf("B", []track.Row{{Label: "b1"}, {Label: "b2"}})
	root := NewComposite("Features", a, nil, b)

	if got := len(root.Children()); got != 2 {
		t.Fatalf("children = %d, want 2 (nil skipped)", got)
	}

	r := newRecorder()
	Mount(root, r, "")
	Populate(root, r)

	want := []string{
		"attach group Features",
		"attach group A",
		"attach main A",
		"attach subtrack a1",
		"attach group B",
		"attach main B",
		"attach subtrack b1",
		"attach subtrack b2",
		"data", "data",
		"data", "data", "data",
	}
	if diff := cmp.Diff(want, r.events); diff != "" {
		t.Errorf("event order mismatch (-want +got):\n%s", diff)
	}
	if r.parent[a.ID()] != root.ID() || r.parent[b.ID()] != root.ID() {
		t.Error("leaves should attach under the composite")
	}
}

func TestCollectAndDepth(t *testing.T) {
	a := NewLeaf("A", nil)
	b := NewLeaf("B", nil)
	c := NewLeaf("C", nil)
	root := NewComposite("root", NewComposite("inner", a, b), c)

	leaves := Collect(root)
	var labels []string
	for _, l := range leaves {
		labels = append(labels, l.Label())
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, labels); diff != "" {
		t.Errorf("Collect() order mismatch:\n%s", diff)
	}

	if got := Depth(root); got != 3 {
		t.Errorf("Depth() = %d, want 3", got)
	}
	if got := Depth(a); got != 1 {
		t.Errorf("Depth(leaf) = %d, want 1", got)
	}
}

func TestIDsAreUnique(t *testing.T) {
	l := NewLeaf("A", rows())
	seen := map[string]bool{l.ID(): true, l.Main().ID: true}
	for _, s := range l.Subtracks() {
		if seen[s.ID] {
			t.Fatalf("duplicate id %s", s.ID)
		}
		seen[s.ID] = true
	}
}
