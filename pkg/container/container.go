package container

import (
	"github.com/google/uuid"

	"github.com/matzehuels/seqtracks/pkg/track"
)

// ElementKind identifies the role of a presentation element.
type ElementKind string

// Element kinds issued to a Target.
const (
	KindGroup    ElementKind = "group"
	KindMain     ElementKind = "main"
	KindSubtrack ElementKind = "subtrack"
)

// Element describes one presentation node to attach.
type Element struct {
	ID    string      `json:"id"`
	Kind  ElementKind `json:"kind"`
	Label string      `json:"label,omitempty"`
}

// Target is the display capability a tree issues commands against.
// An empty parent attaches to the surface root.
type Target interface {
	Attach(parent string, el Element)
	SetVisible(id string, visible bool)
	SetData(id string, data []track.Accession)
}

// Node is either a *Leaf or a *Composite.
type Node interface {
	Label() string
	node()
}

// Track is one drawable line of a leaf.
type Track struct {
	ID    string
	Label string
	Data  []track.Accession
}

// Leaf holds one source's rows. Its structure is fixed at construction; only
// the expanded flag changes, through Toggle.
type Leaf struct {
	id        string
	label     string
	main      Track
	subtracks []Track
	expanded  bool
}

// LeafOption configures NewLeaf.
type LeafOption func(*leafConfig)

type leafConfig struct {
	firstRowMain bool
}

// WithFirstRowMain uses the first row as the main track instead of the merge
// of all rows.
func WithFirstRowMain() LeafOption {
	return func(c *leafConfig) { c.firstRowMain = true }
}

// NewLeaf builds a leaf from rows. The main track summarises the rows and each
// row becomes a subtrack.
func NewLeaf(label string, rows []track.Row, opts ...LeafOption) *Leaf {
	var cfg leafConfig
	for _, o := range opts {
		o(&cfg)
	}

	main := Track{ID: newID(), Label: label, Data: track.Merge(rows)}
	if cfg.firstRowMain && len(rows) > 0 {
		main.Data = rows[0].Data
	}

	l := &Leaf{id: newID(), label: label, main: main}
	for _, r := range rows {
		l.subtracks = append(l.subtracks, Track{ID: newID(), Label: r.Label, Data: r.Data})
	}
	return l
}

func (l *Leaf) node() {}

// Label returns the leaf's display label.
func (l *Leaf) Label() string { return l.label }

// ID returns the id of the leaf's group element.
func (l *Leaf) ID() string { return l.id }

// Main returns the collapsed summary track.
func (l *Leaf) Main() Track { return l.main }

// Subtracks returns one track per row, in row order.
func (l *Leaf) Subtracks() []Track { return l.subtracks }

// Labels returns the subtrack labels in row order.
func (l *Leaf) Labels() []string {
	labels := make([]string, len(l.subtracks))
	for i, s := range l.subtracks {
		labels[i] = s.Label
	}
	return labels
}

// Expanded reports whether the subtracks are currently shown.
func (l *Leaf) Expanded() bool { return l.expanded }

// Toggle flips between collapsed and expanded and updates visibility on t:
// the main track is visible exactly when the subtracks are not.
func (l *Leaf) Toggle(t Target) {
	l.expanded = !l.expanded
	t.SetVisible(l.main.ID, !l.expanded)
	for _, s := range l.subtracks {
		t.SetVisible(s.ID, l.expanded)
	}
}

// Composite groups child nodes in insertion order.
type Composite struct {
	id       string
	label    string
	children []Node
}

// NewComposite builds a composite over children. Nil children are skipped.
func NewComposite(label string, children ...Node) *Composite {
	c := &Composite{id: newID(), label: label}
	for _, ch := range children {
		if ch != nil {
			c.children = append(c.children, ch)
		}
	}
	return c
}

func (c *Composite) node() {}

// Label returns the composite's display label.
func (c *Composite) Label() string { return c.label }

// ID returns the id of the composite's group element.
func (c *Composite) ID() string { return c.id }

// Children returns the child nodes in insertion order.
func (c *Composite) Children() []Node { return c.children }

// Mount attaches the element structure of n under parent. Subtracks start
// hidden. Mount binds no data.
func Mount(n Node, t Target, parent string) {
	switch n := n.(type) {
	case *Leaf:
		t.Attach(parent, Element{ID: n.id, Kind: KindGroup, Label: n.label})
		t.Attach(n.id, Element{ID: n.main.ID, Kind: KindMain, Label: n.main.Label})
		t.SetVisible(n.main.ID, !n.expanded)
		for _, s := range n.subtracks {
			t.Attach(n.id, Element{ID: s.ID, Kind: KindSubtrack, Label: s.Label})
			t.SetVisible(s.ID, n.expanded)
		}
	case *Composite:
		t.Attach(parent, Element{ID: n.id, Kind: KindGroup, Label: n.label})
		for _, ch := range n.children {
			Mount(ch, t, n.id)
		}
	}
}

// Populate binds accession data to every track of n.
func Populate(n Node, t Target) {
	switch n := n.(type) {
	case *Leaf:
		t.SetData(n.main.ID, n.main.Data)
		for _, s := range n.subtracks {
			t.SetData(s.ID, s.Data)
		}
	case *Composite:
		for _, ch := range n.children {
			Populate(ch, t)
		}
	}
}

// Collect returns the leaves of n in depth-first order.
func Collect(n Node) []*Leaf {
	switch n := n.(type) {
	case *Leaf:
		return []*Leaf{n}
	case *Composite:
		var out []*Leaf
		for _, ch := range n.children {
			out = append(out, Collect(ch)...)
		}
		return out
	}
	return nil
}

// Depth returns the number of node levels in n.
func Depth(n Node) int {
	c, ok := n.(*Composite)
	if !ok {
		return 1
	}
	d := 0
	for _, ch := range c.children {
		d = max(d, Depth(ch))
	}
	return d + 1
}

func newID() string { return uuid.NewString() }
