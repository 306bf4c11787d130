// Package request defines the value types exchanged between the crawl
// engine and its executor: requests, their bodies, and responses.
package request

// Body is an immutable byte buffer attached to a Request. It is cheap to
// copy (a Request is cloneable by value) since it only ever wraps a byte
// slice the caller has already given up ownership of.
type Body struct {
	b []byte
}

// FromBytes wraps an owned byte slice. The caller must not mutate b after
// this call.
func FromBytes(b []byte) *Body {
	return &Body{b: b}
}

// FromString wraps a string's bytes.
func FromString(s string) *Body {
	return &Body{b: []byte(s)}
}

// FromStaticBytes wraps a byte slice known to never be mutated by its
// caller, such as a package-level []byte literal.
func FromStaticBytes(b []byte) *Body {
	return &Body{b: b}
}

// Bytes returns a view over the body's contents. Callers must not modify
// the returned slice.
func (b *Body) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.b
}

// Len reports the body size in bytes.
func (b *Body) Len() int {
	if b == nil {
		return 0
	}
	return len(b.b)
}
