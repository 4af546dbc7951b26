package surface

import (
	"sync"

	"github.com/matzehuels/seqtracks/pkg/container"
	"github.com/matzehuels/seqtracks/pkg/track"
)

// Op names a recorded command.
type Op string

// Recorded commands.
const (
	OpAttach  Op = "attach"
	OpVisible Op = "visible"
	OpData    Op = "data"
	OpLength  Op = "length"
)

// Event is one recorded command.
type Event struct {
	Op      Op
	ID      string
	Parent  string
	Visible bool
	Rows    int
}

// Node is an attached element and its current state.
type Node struct {
	container.Element
	Parent   string
	Visible  bool
	Data     []track.Accession
	Children []*Node
}

// Memory is an in-memory surface. It is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	length int
	roots  []*Node
	nodes  map[string]*Node
	events []Event
}

// NewMemory returns an empty surface.
func NewMemory() *Memory {
	return &Memory{nodes: make(map[string]*Node)}
}

// Attach adds el under parent. An unknown parent attaches to the root.
func (m *Memory) Attach(parent string, el container.Element) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := &Node{Element: el, Parent: parent, Visible: true}
	m.nodes[el.ID] = n
	if p, ok := m.nodes[parent]; ok {
		p.Children = append(p.Children, n)
	} else {
		n.Parent = ""
		m.roots = append(m.roots, n)
	}
	m.events = append(m.events, Event{Op: OpAttach, ID: el.ID, Parent: n.Parent})
}

// SetVisible shows or hides the element id.
func (m *Memory) SetVisible(id string, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n, ok := m.nodes[id]; ok {
		n.Visible = visible
	}
	m.events = append(m.events, Event{Op: OpVisible, ID: id, Visible: visible})
}

// SetData binds accessions to the element id.
func (m *Memory) SetData(id string, data []track.Accession) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n, ok := m.nodes[id]; ok {
		n.Data = data
	}
	m.events = append(m.events, Event{Op: OpData, ID: id, Rows: len(data)})
}

// SetLength sets the reference sequence length.
func (m *Memory) SetLength(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.length = n
	m.events = append(m.events, Event{Op: OpLength, Rows: n})
}

// Length returns the reference sequence length.
func (m *Memory) Length() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.length
}

// Roots returns the top-level elements in attach order.
func (m *Memory) Roots() []*Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Node(nil), m.roots...)
}

// Lookup returns the element with the given id.
func (m *Memory) Lookup(id string) (*Node, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	return n, ok
}

// Events returns a copy of the recorded commands in order.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Walk calls fn for every element in depth-first attach order. It must not
// run concurrently with Attach.
func (m *Memory) Walk(fn func(n *Node, depth int)) {
	for _, r := range m.Roots() {
		walk(r, 0, fn)
	}
}

func walk(n *Node, depth int, fn func(*Node, int)) {
	fn(n, depth)
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}
