package urlcanon

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString_SortsQueryKeys(t *testing.T) {
	u, err := url.Parse("https://example.com/path?b=2&a=1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path?a=1&b=2", String(u))
}

func TestString_NoQuery(t *testing.T) {
	u, err := url.Parse("https://example.com/path")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path", String(u))
}

func TestString_PanicsWithoutHost(t *testing.T) {
	u, err := url.Parse("/relative/path")
	require.NoError(t, err)
	assert.Panics(t, func() { String(u) })
}

func TestSortedPairs_OrderedByKeyThenOriginalValueOrder(t *testing.T) {
	u, err := url.Parse("https://example.com/path?b=2&a=3&a=1")
	require.NoError(t, err)
	pairs := SortedPairs(u)
	require.Len(t, pairs, 3)
	assert.Equal(t, [2]string{"a", "3"}, pairs[0])
	assert.Equal(t, [2]string{"a", "1"}, pairs[1])
	assert.Equal(t, [2]string{"b", "2"}, pairs[2])
}

func TestSortedPairs_Empty(t *testing.T) {
	u, err := url.Parse("https://example.com/path")
	require.NoError(t, err)
	assert.Nil(t, SortedPairs(u))
}
