package digest

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spider-crawler/crawlcore/request"
)

func reqGet(t *testing.T, raw string) *request.Request {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return request.New(request.MethodGet, u)
}

// TestSum_HostOmitted pins Open Question 1 (see DESIGN.md): the digest
// deliberately excludes the host, so two requests that differ only by
// host collide. This mirrors the upstream Rust implementation's
// canonicalization, bug and all.
func TestSum_HostOmitted(t *testing.T) {
	a := reqGet(t, "http://host-a.example/path?x=1")
	b := reqGet(t, "http://host-b.example/path?x=1")
	assert.Equal(t, Sum(a), Sum(b))
}

func TestSum_DifferentPathsDiffer(t *testing.T) {
	a := reqGet(t, "http://example.com/one")
	b := reqGet(t, "http://example.com/two")
	assert.NotEqual(t, Sum(a), Sum(b))
}

func TestSum_QueryOrderDoesNotAffectDigest(t *testing.T) {
	a := reqGet(t, "http://example.com/path?a=1&b=2")
	b := reqGet(t, "http://example.com/path?b=2&a=1")
	assert.Equal(t, Sum(a), Sum(b))
}

func TestSum_MethodDistinguishesOtherwiseEqualRequests(t *testing.T) {
	u, err := url.Parse("http://example.com/path")
	require.NoError(t, err)
	get := request.New(request.MethodGet, u)
	post := request.New(request.MethodPost, u)
	assert.NotEqual(t, Sum(get), Sum(post))
}

func TestSum_BodyDistinguishesOtherwiseEqualRequests(t *testing.T) {
	u, err := url.Parse("http://example.com/path")
	require.NoError(t, err)
	withBody := request.New(request.MethodPost, u)
	withBody.Body = request.FromString("payload")
	withoutBody := request.New(request.MethodPost, u)
	assert.NotEqual(t, Sum(withBody), Sum(withoutBody))
}
