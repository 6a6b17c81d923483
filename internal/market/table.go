package market

import (
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/whaleprotocol/watchdesk/internal/model"
)

// SortKey names a sortable column.
type SortKey string

const (
	SortRank      SortKey = "rank"
	SortCoin      SortKey = "coin"
	SortPrice     SortKey = "price"
	SortVolume    SortKey = "volume_24h"
	SortMarketCap SortKey = "market_cap"
	SortRatio     SortKey = "vol_mcap_ratio"
)

// Dir is a sort direction.
type Dir string

const (
	Asc  Dir = "asc"
	Desc Dir = "desc"
)

// ParseSortKey validates a column name from user input; unknown columns
// fall back to rank.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortCoin, SortPrice, SortVolume, SortMarketCap, SortRatio:
		return SortKey(s)
	default:
		return SortRank
	}
}

// DefaultDir is the direction applied when a column is first selected:
// ascending for rank, descending everywhere else, where higher is the more
// relevant end.
func DefaultDir(key SortKey) Dir {
	if key == SortRank {
		return Asc
	}
	return Desc
}

// ParseDir validates a direction from user input; anything else falls back
// to the column's default.
func ParseDir(s string, key SortKey) Dir {
	switch Dir(s) {
	case Asc, Desc:
		return Dir(s)
	default:
		return DefaultDir(key)
	}
}

// NextSort applies a header click to the current sort state: clicking the
// active column flips direction, a new column resets to its per-column
// default.
func NextSort(key SortKey, dir Dir, clicked SortKey) (SortKey, Dir) {
	if clicked == key {
		if dir == Asc {
			return key, Desc
		}
		return key, Asc
	}
	return clicked, DefaultDir(clicked)
}

// Table holds the full fetched row set and derives the visible projection:
// visible = sort(filter(all, query), key, dir). The row set is replaced
// wholesale when a newer snapshot resolves; sort state is the caller's,
// carried per request, so concurrent visitors never disturb each other.
type Table struct {
	mu       sync.RWMutex
	snapshot model.MarketSnapshot
	collator *collate.Collator
}

// NewTable returns a table collating symbols for the given language.
func NewTable(tag language.Tag) *Table {
	return &Table{
		collator: collate.New(tag, collate.IgnoreCase),
	}
}

// SetSnapshot replaces the in-memory row set.
func (t *Table) SetSnapshot(s model.MarketSnapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshot = s
}

// UpdatedUTC returns the source timestamp, displayed verbatim.
func (t *Table) UpdatedUTC() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshot.UpdatedUTC
}

// Visible derives the projection for a query and sort state:
// case-insensitive substring filter on symbol or name, then a stable sort.
// The stored row set is never mutated. An invalid direction falls back to
// the column's default.
func (t *Table) Visible(query string, key SortKey, dir Dir) []model.MarketRow {
	t.mu.RLock()
	rows := t.snapshot.Rows
	collator := t.collator
	t.mu.RUnlock()

	if dir != Asc && dir != Desc {
		dir = DefaultDir(key)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	view := make([]model.MarketRow, 0, len(rows))
	for _, row := range rows {
		if q == "" ||
			strings.Contains(strings.ToLower(row.Symbol), q) ||
			strings.Contains(strings.ToLower(row.Name), q) {
			view = append(view, row)
		}
	}

	sort.SliceStable(view, func(i, j int) bool {
		if key == SortCoin {
			cmp := collator.CompareString(view[i].Symbol, view[j].Symbol)
			if dir == Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return numLess(numField(view[i], key), numField(view[j], key), dir)
	})
	return view
}

func numField(r model.MarketRow, key SortKey) float64 {
	switch key {
	case SortPrice:
		return r.Price
	case SortVolume:
		return r.Volume24h
	case SortMarketCap:
		return r.MarketCap
	case SortRatio:
		return r.VolMcapRatio
	default:
		return r.Rank
	}
}

// numLess orders NaN after every finite value in both directions, so rows
// with unparseable numbers keep a deterministic position.
func numLess(a, b float64, dir Dir) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	if dir == Desc {
		return a > b
	}
	return a < b
}
