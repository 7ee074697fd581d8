// Package locator classifies raw input strings: is this a recognized
// YouTube locator at all, and does it address a single video or a
// playlist? Classification is a pure string operation with no network
// access.
package locator

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidLocator is returned for inputs that do not address a
// recognized YouTube host. It is fatal to a run.
var ErrInvalidLocator = errors.New("invalid YouTube URL")

// Kind says whether a locator addresses one item or an ordered collection.
type Kind int

const (
	// KindSingle is a single video locator.
	KindSingle Kind = iota

	// KindCollection is a playlist locator.
	KindCollection
)

func (k Kind) String() string {
	if k == KindCollection {
		return "playlist"
	}
	return "video"
}

// recognized YouTube hosts, after stripping an optional "www." prefix
var validHosts = map[string]bool{
	"youtube.com":       true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
}

// Classify validates the raw locator and determines its kind.
//
// The scheme is optional; the host must be a recognized YouTube domain.
// A locator is a collection when it carries a "list" query parameter or
// a "/playlist" path segment.
//
// Example:
//
//	Classify("https://youtu.be/abc123")                      // KindSingle
//	Classify("youtube.com/playlist?list=PLxyz")              // KindCollection
//	Classify("https://example.com/watch?v=abc")              // ErrInvalidLocator
func Classify(raw string) (Kind, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return KindSingle, ErrInvalidLocator
	}

	withScheme := trimmed
	if !strings.Contains(withScheme, "://") {
		withScheme = "https://" + withScheme
	}

	u, err := url.Parse(withScheme)
	if err != nil {
		return KindSingle, fmt.Errorf("%w: %v", ErrInvalidLocator, err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if !validHosts[host] {
		return KindSingle, fmt.Errorf("%w: unrecognised host %q", ErrInvalidLocator, u.Hostname())
	}

	if u.Query().Has("list") || strings.Contains(u.Path, "/playlist") {
		return KindCollection, nil
	}
	return KindSingle, nil
}
