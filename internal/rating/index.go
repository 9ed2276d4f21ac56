package rating

import (
	"sort"

	"github.com/yourusername/ski-ratings/internal/models"
)

type indexEntry struct {
	key  int
	pre  float64
	post float64
}

// Index is a read-only, per-competitor chronological view of ground-truth
// ratings.
type Index struct {
	entries    map[string][]indexEntry
	fieldSizes map[int]int
}

// NewIndex builds an Index from resolved ground-truth rows. When two rows
// share a competitor and key, the later row wins.
func NewIndex(rows []models.ResolvedGroundTruth) *Index {
	idx := &Index{
		entries:    make(map[string][]indexEntry),
		fieldSizes: make(map[int]int),
	}
	for _, row := range rows {
		idx.entries[row.CompetitorID] = append(idx.entries[row.CompetitorID], indexEntry{
			key:  row.SortKey(),
			pre:  row.PreRating,
			post: row.PostRating,
		})
		if row.Ordinal != models.BoundaryOrdinal {
			idx.fieldSizes[row.Season]++
		}
	}
	for id, list := range idx.entries {
		sort.SliceStable(list, func(i, j int) bool { return list[i].key < list[j].key })
		idx.entries[id] = dedupeKeys(list)
	}
	return idx
}

// EmptyIndex returns an index with no ground truth, for cold-start runs.
func EmptyIndex() *Index {
	return NewIndex(nil)
}

func dedupeKeys(list []indexEntry) []indexEntry {
	out := list[:0]
	for i, e := range list {
		if i+1 < len(list) && list[i+1].key == e.key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Lookup returns the ground-truth ratings in force for competitor at
// (season, ordinal): the latest entry whose key does not exceed the query
// key. ok is false when the competitor has no ground truth yet.
func (idx *Index) Lookup(competitor string, season, ordinal int) (pre, post float64, ok bool) {
	list := idx.entries[competitor]
	if len(list) == 0 {
		return 0, 0, false
	}
	q := models.SortKey(season, ordinal)
	pos := sort.Search(len(list), func(i int) bool { return list[i].key > q })
	if pos == 0 {
		return 0, 0, false
	}
	e := list[pos-1]
	return e.pre, e.post, true
}

// SeasonFieldSizes returns the number of ground-truth result rows per season,
// boundary rows excluded.
func (idx *Index) SeasonFieldSizes() map[int]int {
	return idx.fieldSizes
}

// Competitors returns the number of competitors with any ground truth.
func (idx *Index) Competitors() int {
	return len(idx.entries)
}

// Has reports whether competitor has ground truth at any point in history.
func (idx *Index) Has(competitor string) bool {
	return len(idx.entries[competitor]) > 0
}
