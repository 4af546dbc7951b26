package builtin

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/seqtracks/pkg/feeds"
	"github.com/matzehuels/seqtracks/pkg/source"
)

var nopFetcher = feeds.FetcherFunc(func(context.Context, string) ([]byte, error) {
	return nil, feeds.ErrNotFound
})

func TestRegister(t *testing.T) {
	reg := source.NewRegistry()
	err := Register(reg, map[string]string{SMR: "http://localhost/smr/{accession}"}, Deps{Fetcher: nopFetcher})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if diff := cmp.Diff(Names, reg.Names()); diff != "" {
		t.Errorf("order mismatch:\n%s", diff)
	}

	smr, _ := reg.Lookup(SMR)
	if got := smr.URL("P1"); got != "http://localhost/smr/P1" {
		t.Errorf("override URL = %q", got)
	}
	pdb, _ := reg.Lookup(PDB)
	if got := pdb.URL("P1"); got != "https://www.ebi.ac.uk/pdbe/api/mappings/best_structures/P1" {
		t.Errorf("default URL = %q", got)
	}
}

func TestRegisterErrors(t *testing.T) {
	if err := Register(source.NewRegistry(), nil, Deps{}); err == nil {
		t.Error("Register() without fetcher should fail")
	}

	reg := source.NewRegistry()
	if err := Register(reg, map[string]string{Antigen: "https://no-placeholder"}, Deps{Fetcher: nopFetcher}); err == nil {
		t.Error("Register() should reject an endpoint without placeholder")
	}

	reg = source.NewRegistry()
	_ = Register(reg, nil, Deps{Fetcher: nopFetcher})
	if err := Register(reg, nil, Deps{Fetcher: nopFetcher}); err == nil {
		t.Error("registering twice should fail")
	}
}
