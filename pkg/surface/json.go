package surface

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/seqtracks/pkg/container"
	"github.com/matzehuels/seqtracks/pkg/track"
)

// Document is the exported form of a surface.
type Document struct {
	Accession string    `json:"accession,omitempty"`
	Length    int       `json:"length"`
	Tracks    []Element `json:"tracks"`
}

// Element is one exported element with its children.
type Element struct {
	ID         string                `json:"id"`
	Kind       container.ElementKind `json:"kind"`
	Label      string                `json:"label,omitempty"`
	Visible    bool                  `json:"visible"`
	Accessions []track.Accession     `json:"accessions,omitempty"`
	Children   []Element             `json:"children,omitempty"`
}

// Export converts the surface's element tree to a Document.
func Export(m *Memory, accession string) Document {
	doc := Document{Accession: accession, Length: m.Length(), Tracks: []Element{}}
	for _, r := range m.Roots() {
		doc.Tracks = append(doc.Tracks, toJSON(r))
	}
	return doc
}

func toJSON(n *Node) Element {
	out := Element{
		ID:         n.ID,
		Kind:       n.Kind,
		Label:      n.Label,
		Visible:    n.Visible,
		Accessions: n.Data,
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, toJSON(c))
	}
	return out
}

// WriteJSON writes the surface as indented JSON.
func WriteJSON(w io.Writer, m *Memory, accession string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Export(m, accession))
}
