// Package builtin registers the parsers shipped with seqtracks.
package builtin

import (
	"fmt"

	"github.com/matzehuels/seqtracks/pkg/feeds"
	"github.com/matzehuels/seqtracks/pkg/metadata"
	"github.com/matzehuels/seqtracks/pkg/source"
	"github.com/matzehuels/seqtracks/pkg/source/antigen"
	"github.com/matzehuels/seqtracks/pkg/source/features"
	"github.com/matzehuels/seqtracks/pkg/source/pdb"
	"github.com/matzehuels/seqtracks/pkg/source/proteomics"
	"github.com/matzehuels/seqtracks/pkg/source/smr"
)

// Source names, in display order.
const (
	Features   = "features"
	Proteomics = "proteomics"
	Antigen    = "antigen"
	PDB        = "pdb"
	SMR        = "smr"
)

// Names lists the built-in sources in registration order.
var Names = []string{Features, Proteomics, Antigen, PDB, SMR}

// DefaultEndpoints are the public feeds for each built-in source.
var DefaultEndpoints = map[string]string{
	Features:   "https://www.ebi.ac.uk/proteins/api/features/{accession}",
	Proteomics: "https://www.ebi.ac.uk/proteins/api/proteomics/{accession}",
	Antigen:    "https://www.ebi.ac.uk/proteins/api/antigen/{accession}",
	PDB:        "https://www.ebi.ac.uk/pdbe/api/mappings/best_structures/{accession}",
	SMR:        "https://swissmodel.expasy.org/repository/uniprot/{accession}.json?provider=swissmodel",
}

// Deps are the collaborators some parsers need.
type Deps struct {
	// Fetcher serves the PDB coverage lookups.
	Fetcher feeds.Fetcher

	// Metadata styles generic features. Nil selects metadata.Default.
	Metadata *metadata.Table

	// CoverageURL overrides pdb.DefaultCoverageURL.
	CoverageURL string
}

// Register adds every built-in parser to reg. Endpoints missing from
// endpoints fall back to DefaultEndpoints.
func Register(reg *source.Registry, endpoints map[string]string, deps Deps) error {
	if deps.Fetcher == nil {
		return fmt.Errorf("builtin: nil fetcher")
	}
	parsers := map[string]source.Parser{
		Features:   features.New(deps.Metadata),
		Proteomics: proteomics.New(),
		Antigen:    antigen.New(),
		PDB:        pdb.New(deps.Fetcher, deps.CoverageURL),
		SMR:        smr.New(),
	}
	for _, name := range Names {
		endpoint := endpoints[name]
		if endpoint == "" {
			endpoint = DefaultEndpoints[name]
		}
		if err := reg.Register(name, endpoint, parsers[name]); err != nil {
			return err
		}
	}
	return nil
}
