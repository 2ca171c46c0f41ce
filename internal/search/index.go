package search

import (
	"sort"
	"strings"

	rank "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/photoviewer/internal/domain"
)

// Result is a photo matched by a query
type Result struct {
	Photo          domain.Photo
	Index          int   // Position in the indexed list
	MatchedIndexes []int // Title positions that matched (Filter only)
	Score          int   // Filter: higher is better. Rank: edit distance, lower is better
}

// Index implements sahilm/fuzzy.Source over photo titles
type Index struct {
	photos      []domain.Photo
	lowerTitles []string
}

// NewIndex builds an index over photos. Lowercase titles are computed once.
func NewIndex(photos []domain.Photo) *Index {
	idx := &Index{
		photos:      photos,
		lowerTitles: make([]string, len(photos)),
	}
	for i, p := range photos {
		idx.lowerTitles[i] = strings.ToLower(p.Title)
	}
	return idx
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of photos (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.photos) }

// Filter returns photos whose title contains the query as a subsequence,
// best match first, with the matched positions for highlighting.
func (idx *Index) Filter(query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" || idx.Len() == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), idx)

	results := make([]Result, len(matches))
	for i, match := range matches {
		results[i] = Result{
			Photo:          idx.photos[match.Index],
			Index:          match.Index,
			MatchedIndexes: match.MatchedIndexes,
			Score:          match.Score,
		}
	}
	return results
}

// Rank returns matching photos ordered by Levenshtein distance to the query.
// Ties keep list order.
func (idx *Index) Rank(query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" || idx.Len() == 0 {
		return nil
	}

	matches := rank.RankFindFold(query, idx.lowerTitles)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].OriginalIndex < matches[j].OriginalIndex
	})

	results := make([]Result, len(matches))
	for i, match := range matches {
		results[i] = Result{
			Photo: idx.photos[match.OriginalIndex],
			Index: match.OriginalIndex,
			Score: match.Distance,
		}
	}
	return results
}
