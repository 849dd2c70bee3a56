package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBootstrap = `{
  "medications": [
    {"id": 1, "commercial_name": "Panadol Extra 500mg Tab", "manufacturer": "GSK"},
    {"id": 2, "commercial_name": "Cataflam 50mg Tab", "manufacturer": "Novartis"},
    {"id": 3, "commercial_name": "Voltaren Gel 1%", "manufacturer": "Novartis"},
    {"id": 4, "commercial_name": "Augmentin 1g Tab", "manufacturer": "GSK"},
    {"id": 5, "commercial_name": "", "manufacturer": "Unknown"}
  ]
}`

func loadSample(t *testing.T) *Catalog {
	t.Helper()
	c := New()
	n, err := c.Load(strings.NewReader(sampleBootstrap))
	require.NoError(t, err)
	require.Equal(t, 4, n)
	return c
}

func TestLoadSkipsBlankCommercialName(t *testing.T) {
	c := loadSample(t)
	_, err := c.Get(5)
	assert.Error(t, err)
}

func TestLoadIsIdempotent(t *testing.T) {
	c := loadSample(t)
	n, err := c.Load(strings.NewReader(sampleBootstrap))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, c.Statistics().TotalMedications)
}

func TestGetNotFound(t *testing.T) {
	c := loadSample(t)
	_, err := c.Get(999)
	assert.Error(t, err)
}

func TestSearchByBrandSubstring(t *testing.T) {
	c := loadSample(t)
	results := c.Search("panadol", 10)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ID)
}

func TestSearchByGenericMatchesSiblingBrands(t *testing.T) {
	c := loadSample(t)
	results := c.Search("diclofenac", 10)
	ids := map[int]bool{}
	for _, m := range results {
		ids[m.ID] = true
	}
	assert.True(t, ids[2], "Cataflam should index under diclofenac")
	assert.True(t, ids[3], "Voltaren should index under diclofenac")
}

func TestSearchRespectsLimit(t *testing.T) {
	c := loadSample(t)
	results := c.Search("a", 1)
	assert.Len(t, results, 1)
}

func TestIsHighAlertFalseForOrdinaryDrug(t *testing.T) {
	c := loadSample(t)
	assert.False(t, c.IsHighAlert(1))
}

func TestSimilarExcludesSelf(t *testing.T) {
	c := loadSample(t)
	similar := c.Similar(2)
	for _, m := range similar {
		assert.NotEqual(t, 2, m.ID)
	}
}

func TestStatisticsCountsGenericMapping(t *testing.T) {
	c := loadSample(t)
	stats := c.Statistics()
	assert.Equal(t, 4, stats.TotalMedications)
	assert.Greater(t, stats.WithGenericMapping, 0)
}

func TestLoadedReflectsContent(t *testing.T) {
	c := New()
	assert.False(t, c.Loaded())
	_, err := c.Load(strings.NewReader(sampleBootstrap))
	require.NoError(t, err)
	assert.True(t, c.Loaded())
}
