package errors

import (
	"regexp"
	"strings"
)

// accessionRE matches UniProtKB accessions, optionally with an isoform suffix.
var accessionRE = regexp.MustCompile(`^([OPQ][0-9][A-Z0-9]{3}[0-9]|[A-NR-Z][0-9]([A-Z][A-Z0-9]{2}[0-9]){1,2})(-[0-9]+)?$`)

// NormalizeAccession upper-cases and trims an accession.
func NormalizeAccession(acc string) string {
	return strings.ToUpper(strings.TrimSpace(acc))
}

// ValidateAccession checks that acc is a well-formed UniProtKB accession.
// The accession ends up in feed URLs, so anything else is rejected.
func ValidateAccession(acc string) error {
	if acc == "" {
		return New(ErrCodeInvalidAccession, "accession cannot be empty")
	}
	if !accessionRE.MatchString(acc) {
		return New(ErrCodeInvalidAccession, "invalid UniProtKB accession: %q", acc)
	}
	return nil
}
