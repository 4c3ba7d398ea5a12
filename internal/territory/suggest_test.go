package territory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suggestCatalog(t *testing.T) *Catalog {
	t.Helper()
	names := []string{"Afghanistan", "France", "San Francisco Republic", "Frankland", "Africa Central", "French Guiana", "Framley"}
	recs := make([]Record, len(names))
	for i, n := range names {
		recs[i] = Record{Name: Name{Common: n}, CCA3: string(rune('A'+i)) + "XX"}
	}
	c, err := NewCatalog(recs)
	require.NoError(t, err)
	return c
}

func TestSuggestPrefixBeforeContains(t *testing.T) {
	c := suggestCatalog(t)

	got := c.Suggest("fra", 10)
	assert.Equal(t, []string{"France", "Frankland", "Framley", "San Francisco Republic"}, got)
}

func TestSuggestCaseInsensitive(t *testing.T) {
	c := suggestCatalog(t)

	assert.Equal(t, c.Suggest("fra", 10), c.Suggest("FRA", 10))
	assert.Equal(t, c.Suggest("fra", 10), c.Suggest("  fRa ", 10))
}

func TestSuggestLimits(t *testing.T) {
	c := suggestCatalog(t)

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{name: "single letter", query: "x", limit: 10, want: []string{}},
		{name: "single letter after trim", query: " f ", limit: 10, want: []string{}},
		{name: "empty", query: "", limit: 10, want: []string{}},
		{name: "zero limit", query: "fra", limit: 0, want: []string{}},
		{name: "negative limit", query: "fra", limit: -1, want: []string{}},
		{name: "truncated", query: "fra", limit: 2, want: []string{"France", "Frankland"}},
		{name: "no match", query: "zz", limit: 10, want: []string{}},
		{name: "contains only", query: "ica", limit: 10, want: []string{"Africa Central"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Suggest(tt.query, tt.limit)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestNoDuplicates(t *testing.T) {
	c, err := NewCatalog([]Record{
		{Name: Name{Common: "Congo"}, CCA3: "COG"},
		{Name: Name{Common: "Congo"}, CCA3: "COD"},
		{Name: Name{Common: "DR Congo"}, CCA3: "DRC"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Congo", "DR Congo"}, c.Suggest("con", 10))
}
