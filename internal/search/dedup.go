package search

import (
	"net/url"
	"strings"
)

// Deduplicator tracks canonical URL identities within a single Collect run.
// The first item seen for an identity wins; later duplicates are dropped
// even when they carry a richer summary. State is not persisted across runs.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator creates an empty Deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Admit reports whether the URL is new to this run. A true result means the
// caller should keep the item; false means it duplicates an earlier one.
// Unparseable URLs are deduplicated by their raw string form.
func (d *Deduplicator) Admit(rawURL string) bool {
	key, err := CanonicalURL(rawURL)
	if err != nil {
		key = rawURL
	}
	if _, dup := d.seen[key]; dup {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// Len returns the number of distinct identities admitted so far.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}

// CanonicalURL normalizes a URL to its deduplication identity:
// scheme and host lowercased, trailing slash stripped from the path,
// fragment removed, query string retained verbatim.
//
// The query string is kept because many news and documentation sites use
// query parameters to address distinct content.
func CanonicalURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimRight(u.Path, "/")
	u.Fragment = ""
	u.RawFragment = ""

	return u.String(), nil
}
