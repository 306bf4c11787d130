// Package urlcanon produces the canonical textual view of a URL, and the
// sorted query pairs the digest package feeds into its fingerprint.
//
// The canonical form is scheme://host{path}[?k1=v1&k2=v2…] with query keys
// in ascending byte order. Port, fragment, and user-info are deliberately
// excluded. Grounded on the sorted-query-string technique in the teacher's
// internal/urlutil/normalize.go (sortedQueryString), generalized to also
// render scheme/host/path in one pass.
package urlcanon

import (
	"net/url"
	"sort"
	"strings"
)

// String renders u's canonical form. Panics if u has no host — the
// scheduler guarantees this invariant before a Request reaches anything
// that canonicalizes it.
func String(u *url.URL) string {
	if u.Host == "" {
		panic("urlcanon: URL has no host")
	}

	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(u.Hostname())
	b.WriteString(u.Path)

	if q := sortedQuery(u); q != "" {
		b.WriteByte('?')
		b.WriteString(q)
	}
	return b.String()
}

// sortedQuery renders u's query string with keys in ascending byte order
// and, within a key, values in the order they appeared.
func sortedQuery(u *url.URL) string {
	values := u.Query()
	if len(values) == 0 {
		return ""
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		for _, v := range values[k] {
			parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

// SortedPairs returns the URL's query pairs in the same (key, then
// original-order values) ordering String uses, for callers (digest.Sum)
// that need the raw key/value bytes rather than a pre-escaped string.
func SortedPairs(u *url.URL) [][2]string {
	values := u.Query()
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs [][2]string
	for _, k := range keys {
		for _, v := range values[k] {
			pairs = append(pairs, [2]string{k, v})
		}
	}
	return pairs
}
