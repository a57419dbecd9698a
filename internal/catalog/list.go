package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vmunix/cinetrack/internal/media"
	"github.com/vmunix/cinetrack/pkg/titles"
)

// SortOrder selects how List orders records.
type SortOrder string

const (
	SortNone       SortOrder = ""
	SortTitleAsc   SortOrder = "title"
	SortTitleDesc  SortOrder = "title-desc"
	SortYearDesc   SortOrder = "newest"
	SortYearAsc    SortOrder = "oldest"
	SortRatingDesc SortOrder = "rating"
	SortRatingAsc  SortOrder = "rating-asc"
)

// SortOrders lists the accepted sort orders.
var SortOrders = []SortOrder{SortTitleAsc, SortTitleDesc, SortYearDesc, SortYearAsc, SortRatingDesc, SortRatingAsc}

// ParseSortOrder validates a user-supplied sort order. Empty means catalog order.
func ParseSortOrder(s string) (SortOrder, error) {
	o := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	if o == SortNone {
		return SortNone, nil
	}
	for _, v := range SortOrders {
		if o == v {
			return o, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort order %q", s)
}

// fuzzyThreshold is the minimum title similarity for a fuzzy query hit.
const fuzzyThreshold = 0.85

// Filter narrows and orders a listing.
type Filter struct {
	Status *media.WatchStatus
	Kind   *media.Kind
	Query  string
	Sort   SortOrder
}

// List returns the records matching f in the requested order.
func (s *Store) List(f Filter) []media.Record {
	return f.Apply(s.All())
}

// Apply filters and sorts records. The input slice is not modified.
// Ties keep catalog order.
func (f Filter) Apply(records []media.Record) []media.Record {
	q := strings.TrimSpace(titles.Fold(f.Query))

	out := make([]media.Record, 0, len(records))
	for _, r := range records {
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		if f.Kind != nil && r.Kind != *f.Kind {
			continue
		}
		if q != "" && !matchesQuery(r.Title, q) {
			continue
		}
		out = append(out, r)
	}

	if less := f.less(out); less != nil {
		sort.SliceStable(out, less)
	}
	return out
}

// matchesQuery is a folded substring match, falling back to fuzzy similarity
// for queries long enough to be meaningful.
func matchesQuery(title, q string) bool {
	if strings.Contains(titles.Fold(title), q) {
		return true
	}
	return len([]rune(q)) >= 4 && titles.Similarity(title, q) >= fuzzyThreshold
}

func (f Filter) less(out []media.Record) func(i, j int) bool {
	switch f.Sort {
	case SortTitleAsc:
		return func(i, j int) bool { return titles.SortKey(out[i].Title) < titles.SortKey(out[j].Title) }
	case SortTitleDesc:
		return func(i, j int) bool { return titles.SortKey(out[i].Title) > titles.SortKey(out[j].Title) }
	case SortYearDesc:
		return func(i, j int) bool { return yearOf(out[i]) > yearOf(out[j]) }
	case SortYearAsc:
		// unknown years sort last
		return func(i, j int) bool {
			a, b := yearOf(out[i]), yearOf(out[j])
			if a == 0 || b == 0 {
				return a != 0 && b == 0
			}
			return a < b
		}
	case SortRatingDesc:
		return func(i, j int) bool { return out[i].Rating > out[j].Rating }
	case SortRatingAsc:
		return func(i, j int) bool { return out[i].Rating < out[j].Rating }
	}
	return nil
}

func yearOf(r media.Record) int {
	y, err := strconv.Atoi(strings.TrimSpace(r.Year))
	if err != nil {
		return 0
	}
	return y
}
