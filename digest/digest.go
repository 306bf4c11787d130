// Package digest computes the SHA-1 fingerprint the RFP filter uses to
// recognize equivalent requests.
package digest

import (
	"crypto/sha1"

	"github.com/spider-crawler/crawlcore/request"
	"github.com/spider-crawler/crawlcore/urlcanon"
)

// Digest is a 20-byte SHA-1 value. Equal digests mean the filter considers
// the two requests equivalent.
type Digest [sha1.Size]byte

// Sum computes req's digest by feeding, in order: the URL scheme, the URL
// path, each sorted (key, value) query pair, the method's ASCII form, and
// the body bytes if present.
//
// Host is deliberately NOT part of the input — spec.md §4.4 canonicalizes
// only scheme+path+query+method+body. This reproduces the upstream Rust
// implementation faithfully (see DESIGN.md, Open Question 1): two requests
// that differ only by host collide. Pinned by TestSum_HostOmitted.
func Sum(req *request.Request) Digest {
	h := sha1.New()

	h.Write([]byte(req.URL.Scheme))
	h.Write([]byte(req.URL.Path))

	for _, pair := range urlcanon.SortedPairs(req.URL) {
		h.Write([]byte(pair[0]))
		h.Write([]byte(pair[1]))
	}

	h.Write([]byte(req.Method))

	if req.Body != nil {
		h.Write(req.Body.Bytes())
	}

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
