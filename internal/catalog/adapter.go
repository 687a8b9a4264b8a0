package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the upstream catalog has no record for the
// requested media item.
var ErrNotFound = errors.New("catalog: not found")

// Adapter wraps one read-only external media catalog. Implementations must be
// idempotent and side-effect-free; retries and rate limiting are handled
// inside each client.
type Adapter interface {
	// Source returns the catalog identifier ("tmdb" or "jikan").
	Source() string

	// MediaTypes returns the media types this adapter serves.
	MediaTypes() []string

	ListTrending(ctx context.Context, mediaType string, page int) ([]Media, error)
	ListPopular(ctx context.Context, mediaType string, page int) ([]Media, error)
	ListTopRated(ctx context.Context, mediaType string, page int) ([]Media, error)
	Search(ctx context.Context, query, mediaType string) ([]Media, error)

	// ListCharacters returns the cast of one media item in catalog order.
	// limit <= 0 means no limit.
	ListCharacters(ctx context.Context, mediaType string, mediaID, limit int) ([]Character, error)
}

// Registry indexes adapters by source and by media type.
type Registry struct {
	bySource    map[string]Adapter
	byMediaType map[string]Adapter
}

// NewRegistry builds a registry from the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{
		bySource:    make(map[string]Adapter),
		byMediaType: make(map[string]Adapter),
	}
	for _, a := range adapters {
		r.bySource[a.Source()] = a
		for _, mt := range a.MediaTypes() {
			r.byMediaType[mt] = a
		}
	}
	return r
}

// BySource returns the adapter for a catalog source, or nil.
func (r *Registry) BySource(source string) Adapter {
	return r.bySource[source]
}

// ByMediaType returns the adapter serving a media type, or nil.
func (r *Registry) ByMediaType(mediaType string) Adapter {
	return r.byMediaType[mediaType]
}

// Adapters returns all registered adapters.
func (r *Registry) Adapters() []Adapter {
	seen := make(map[string]bool)
	out := make([]Adapter, 0, len(r.bySource))
	for _, a := range r.bySource {
		if !seen[a.Source()] {
			seen[a.Source()] = true
			out = append(out, a)
		}
	}
	return out
}
