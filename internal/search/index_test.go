package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/photoviewer/internal/domain"
)

func testIndex() *Index {
	return NewIndex([]domain.Photo{
		{ID: "1", Title: "Sunset over lake"},
		{ID: "2", Title: "Morning run"},
		{ID: "3", Title: "Sunny day"},
		{ID: "4", Title: ""},
	})
}

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Photo.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	results := testIndex().Filter("SUN")
	assert.ElementsMatch(t, []string{"1", "3"}, ids(results))

	for _, r := range results {
		assert.Equal(t, []int{0, 1, 2}, r.MatchedIndexes, r.Photo.ID)
	}
}

func TestFilterIndexesReferToList(t *testing.T) {
	idx := testIndex()
	results := idx.Filter("run")
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Index)
	assert.Equal(t, "2", results[0].Photo.ID)
}

func TestRankOrdersByDistance(t *testing.T) {
	results := testIndex().Rank("sun")
	assert.Equal(t, []string{"3", "1"}, ids(results))
	assert.Less(t, results[0].Score, results[1].Score)
	assert.Equal(t, 2, results[0].Index)
}

func TestEmptyQuery(t *testing.T) {
	idx := testIndex()
	assert.Nil(t, idx.Filter(""))
	assert.Nil(t, idx.Filter("   "))
	assert.Nil(t, idx.Rank(""))
}

func TestEmptyIndex(t *testing.T) {
	idx := NewIndex(nil)
	assert.Equal(t, 0, idx.Len())
	assert.Nil(t, idx.Filter("sun"))
	assert.Nil(t, idx.Rank("sun"))
}

func TestNoMatch(t *testing.T) {
	assert.Empty(t, testIndex().Filter("xyz"))
	assert.Empty(t, testIndex().Rank("xyz"))
}
