package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"characterhub/internal/catalog"
)

// uuidPattern matches the canonical durable identifier shape:
// 32 hex digits grouped 8-4-4-4-12.
var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// RefKind tags the two reference variants.
type RefKind int

const (
	// RefDurable is a store-assigned character id.
	RefDurable RefKind = iota
	// RefExternal is a catalog-assigned external identifier, optionally
	// carrying media-type context from an ext- composite token.
	RefExternal
)

// CharacterRef is the parsed form of a path-level character reference. All
// call sites consume this tagged shape instead of re-checking string prefixes.
type CharacterRef struct {
	Kind RefKind

	// Durable
	ID string

	// External
	Source     string
	MediaType  string // empty for raw external ids: no refetch context
	ExternalID string
}

// ParseCharacterRef classifies a reference into one of three accepted forms:
//
//  1. durable UUID                     -> RefDurable
//  2. raw external id (tmdb-.../jikan-...) -> RefExternal, source from prefix
//  3. ext-{source}-{mediaType}-{externalId...} -> RefExternal with refetch
//     context for characters not yet persisted
func ParseCharacterRef(raw string) (CharacterRef, error) {
	if uuidPattern.MatchString(strings.ToLower(raw)) {
		return CharacterRef{Kind: RefDurable, ID: raw}, nil
	}

	if strings.HasPrefix(raw, "ext-") {
		parts := strings.Split(raw, "-")
		if len(parts) < 4 {
			return CharacterRef{}, fmt.Errorf("malformed composite reference %q", raw)
		}
		return CharacterRef{
			Kind:       RefExternal,
			Source:     parts[1],
			MediaType:  parts[2],
			ExternalID: strings.Join(parts[3:], "-"),
		}, nil
	}

	switch {
	case strings.HasPrefix(raw, catalog.SourceTMDB+"-"):
		return CharacterRef{Kind: RefExternal, Source: catalog.SourceTMDB, ExternalID: raw}, nil
	case strings.HasPrefix(raw, catalog.SourceJikan+"-"):
		return CharacterRef{Kind: RefExternal, Source: catalog.SourceJikan, ExternalID: raw}, nil
	}

	return CharacterRef{}, fmt.Errorf("unrecognized character reference %q", raw)
}

// MediaIDFromExternal re-derives the numeric media id embedded in an external
// identifier: tmdb-{movie|tv}-{mediaID}-{personID} or
// jikan-{animeID}-{characterID}.
func MediaIDFromExternal(source, externalID string) (int, error) {
	parts := strings.Split(externalID, "-")
	var idx int
	switch source {
	case catalog.SourceTMDB:
		idx = 2
	case catalog.SourceJikan:
		idx = 1
	default:
		return 0, fmt.Errorf("unknown source %q", source)
	}
	if len(parts) <= idx {
		return 0, fmt.Errorf("malformed external id %q", externalID)
	}
	mediaID, err := strconv.Atoi(parts[idx])
	if err != nil {
		return 0, fmt.Errorf("malformed external id %q: %w", externalID, err)
	}
	return mediaID, nil
}
