// Package feeds fetches raw annotation feeds over HTTP.
//
// [Client] is the fetch collaborator used by the track manager and by parsers
// that need secondary lookups. It issues exactly one GET per call, never
// retries, and optionally serves responses from a [cache.Cache]:
//
//	c := feeds.NewClient(cache.NewNullCache(), feeds.WithTimeout(8*time.Second))
//	raw, err := c.Fetch(ctx, "https://www.ebi.ac.uk/proteins/api/antigen/P05067")
//
// Failures are reported as [ErrNotFound] or [ErrNetwork] (wrapped with context)
// so callers can decide how loudly to log them.
//
// [cache.Cache]: github.com/matzehuels/seqtracks/pkg/cache.Cache
package feeds
