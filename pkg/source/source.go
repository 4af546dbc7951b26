// Package source defines how annotation feeds plug into the track manager.
//
// Each feed is served by a [Parser]. Parsers are listed in a [Registry], an
// explicit ordered table that also records the URL template of each feed.
// Registration order is display order.
//
// A parser returns a nil node and a nil error when the feed has nothing to
// show for the entity. That is a normal outcome; callers omit the source.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/seqtracks/pkg/container"
)

// Parser turns one raw feed response into a container tree.
type Parser interface {
	Parse(ctx context.Context, accession string, raw []byte) (container.Node, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(ctx context.Context, accession string, raw []byte) (container.Node, error)

// Parse calls f.
func (f ParserFunc) Parse(ctx context.Context, accession string, raw []byte) (container.Node, error) {
	return f(ctx, accession, raw)
}

// Placeholder is replaced by the entity accession in endpoint templates.
const Placeholder = "{accession}"

// Registration binds a feed endpoint to its parser.
type Registration struct {
	Name     string
	Endpoint string
	Parser   Parser
}

// URL expands the endpoint template for accession.
func (r Registration) URL(accession string) string {
	return strings.ReplaceAll(r.Endpoint, Placeholder, accession)
}

// Registry is an ordered table of registrations with unique names.
type Registry struct {
	entries []Registration
	index   map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends a registration. Names must be unique and non-empty and the
// endpoint must contain the accession placeholder.
func (r *Registry) Register(name, endpoint string, p Parser) error {
	switch {
	case name == "":
		return fmt.Errorf("register: empty source name")
	case p == nil:
		return fmt.Errorf("register %s: nil parser", name)
	case !strings.Contains(endpoint, Placeholder):
		return fmt.Errorf("register %s: endpoint %q lacks %s", name, endpoint, Placeholder)
	}
	if _, dup := r.index[name]; dup {
		return fmt.Errorf("register %s: already registered", name)
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, Registration{Name: name, Endpoint: endpoint, Parser: p})
	return nil
}

// Lookup returns the registration named name.
func (r *Registry) Lookup(name string) (Registration, bool) {
	i, ok := r.index[name]
	if !ok {
		return Registration{}, false
	}
	return r.entries[i], true
}

// All returns the registrations in registration order.
func (r *Registry) All() []Registration {
	return append([]Registration(nil), r.entries...)
}

// Names returns the registered names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of registrations.
func (r *Registry) Len() int { return len(r.entries) }

// Subset returns a registry holding only the named sources, in this registry's
// order. Unknown names are an error.
func (r *Registry) Subset(names []string) (*Registry, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := r.index[n]; !ok {
			return nil, fmt.Errorf("unknown source %q", n)
		}
		want[n] = true
	}
	out := NewRegistry()
	for _, e := range r.entries {
		if want[e.Name] {
			if err := out.Register(e.Name, e.Endpoint, e.Parser); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Envelope holds the error fields several feeds use to signal "no data".
type Envelope struct {
	ErrorMessage any `json:"errorMessage"`
	Error        any `json:"error"`
}

// Empty reports whether raw carries a non-empty error field. Undecodable input
// is not treated as empty; the parser's own decode reports it.
func Empty(raw []byte) bool {
	var e Envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return false
	}
	return present(e.ErrorMessage) || present(e.Error)
}

func present(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	case bool:
		return v
	default:
		return true
	}
}
