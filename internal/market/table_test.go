package market

import (
	"math"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/whaleprotocol/watchdesk/internal/model"
)

func sampleSnapshot() model.MarketSnapshot {
	return model.MarketSnapshot{
		UpdatedUTC: "2025-06-01 12:00",
		Rows: []model.MarketRow{
			{Rank: 1, Symbol: "BTC", Name: "Bitcoin", Price: 64000, Volume24h: 3.2e10, MarketCap: 1.2e12, VolMcapRatio: 0.026},
			{Rank: 2, Symbol: "ETH", Name: "Ethereum", Price: 3100, Volume24h: 1.4e10, MarketCap: 3.8e11, VolMcapRatio: 0.036},
			{Rank: 3, Symbol: "SOL", Name: "Solana", Price: 140, Volume24h: 2.1e9, MarketCap: 6.4e10, VolMcapRatio: 0.032},
			{Rank: 4, Symbol: "XYZ", Name: "Mystery", Price: math.NaN(), Volume24h: math.NaN(), MarketCap: 1e9, VolMcapRatio: math.NaN()},
		},
	}
}

func newTestTable() *Table {
	t := NewTable(language.English)
	t.SetSnapshot(sampleSnapshot())
	return t
}

func symbols(rows []model.MarketRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Symbol
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestVisible_DefaultRankAscending(t *testing.T) {
	table := newTestTable()
	got := symbols(table.Visible("", SortRank, Asc))
	want := []string{"BTC", "ETH", "SOL", "XYZ"}
	if !equalStrings(got, want) {
		t.Errorf("Visible order = %v, want %v", got, want)
	}
}

func TestVisible_FilterIsPureSubset(t *testing.T) {
	table := newTestTable()

	for _, q := range []string{"b", "ETH", "sol", "coin", "zz", ""} {
		view := table.Visible(q, SortRank, Asc)
		lower := strings.ToLower(q)
		for _, row := range view {
			if lower != "" &&
				!strings.Contains(strings.ToLower(row.Symbol), lower) &&
				!strings.Contains(strings.ToLower(row.Name), lower) {
				t.Errorf("query %q: row %s does not match", q, row.Symbol)
			}
		}

		// No matching row is excluded.
		matches := 0
		for _, row := range sampleSnapshot().Rows {
			if lower == "" ||
				strings.Contains(strings.ToLower(row.Symbol), lower) ||
				strings.Contains(strings.ToLower(row.Name), lower) {
				matches++
			}
		}
		if len(view) != matches {
			t.Errorf("query %q: got %d rows, want %d", q, len(view), matches)
		}
	}
}

func TestVisible_FilterDoesNotMutateRowSet(t *testing.T) {
	table := newTestTable()
	if n := len(table.Visible("btc", SortRank, Asc)); n != 1 {
		t.Fatalf("Expected 1 row for btc, got %d", n)
	}
	if n := len(table.Visible("", SortRank, Asc)); n != 4 {
		t.Errorf("Expected full row set after filtered view, got %d", n)
	}
}

func TestNextSort_SameKeyFlips(t *testing.T) {
	table := newTestTable()

	before := symbols(table.Visible("", SortRank, Asc))

	// Clicking the current key reverses the order exactly.
	key, dir := NextSort(SortRank, Asc, SortRank)
	if key != SortRank || dir != Desc {
		t.Fatalf("NextSort(rank asc, rank) = %v/%v, want rank/desc", key, dir)
	}
	flipped := symbols(table.Visible("", key, dir))
	for i := range before {
		if before[i] != flipped[len(flipped)-1-i] {
			t.Fatalf("Expected exact reversal: %v vs %v", before, flipped)
		}
	}

	// And flipping back restores it.
	key, dir = NextSort(key, dir, SortRank)
	if got := symbols(table.Visible("", key, dir)); !equalStrings(got, before) {
		t.Errorf("Expected original order restored, got %v", got)
	}
}

func TestNextSort_NewKeyGetsDefaultDirection(t *testing.T) {
	if _, dir := NextSort(SortRank, Asc, SortVolume); dir != Desc {
		t.Errorf("Expected numeric column to default desc, got %v", dir)
	}
	if _, dir := NextSort(SortVolume, Desc, SortRank); dir != Asc {
		t.Errorf("Expected rank to default asc, got %v", dir)
	}
}

func TestVisible_SortIsIdempotent(t *testing.T) {
	table := newTestTable()

	first := symbols(table.Visible("", SortMarketCap, Desc))
	second := symbols(table.Visible("", SortMarketCap, Desc))
	if !equalStrings(first, second) {
		t.Errorf("Same state produced different orders: %v vs %v", first, second)
	}
}

func TestVisible_NaNSortsLastBothDirections(t *testing.T) {
	table := newTestTable()

	view := table.Visible("", SortVolume, Desc)
	if view[len(view)-1].Symbol != "XYZ" {
		t.Errorf("Expected NaN row last on desc, got %v", symbols(view))
	}

	view = table.Visible("", SortVolume, Asc)
	if view[len(view)-1].Symbol != "XYZ" {
		t.Errorf("Expected NaN row last on asc, got %v", symbols(view))
	}
}

func TestVisible_CoinSortUsesCollation(t *testing.T) {
	table := newTestTable()

	got := symbols(table.Visible("", SortCoin, Asc))
	want := []string{"BTC", "ETH", "SOL", "XYZ"}
	if !equalStrings(got, want) {
		t.Errorf("Coin sort = %v, want %v", got, want)
	}

	got = symbols(table.Visible("", SortCoin, Desc))
	want = []string{"XYZ", "SOL", "ETH", "BTC"}
	if !equalStrings(got, want) {
		t.Errorf("Coin sort desc = %v, want %v", got, want)
	}
}

func TestVisible_InvalidDirFallsBackToDefault(t *testing.T) {
	table := newTestTable()

	// Price defaults descending, so BTC leads.
	view := table.Visible("", SortPrice, Dir("sideways"))
	if view[0].Symbol != "BTC" {
		t.Errorf("Expected default desc for price, got %v", symbols(view))
	}
}

func TestParseDir(t *testing.T) {
	if ParseDir("asc", SortPrice) != Asc {
		t.Error("Expected asc to parse")
	}
	if ParseDir("sideways", SortPrice) != Desc {
		t.Error("Expected invalid dir to fall back to the column default")
	}
	if ParseDir("", SortRank) != Asc {
		t.Error("Expected empty dir to fall back to rank's default")
	}
}

func TestParseSortKey(t *testing.T) {
	if ParseSortKey("market_cap") != SortMarketCap {
		t.Error("Expected market_cap to parse")
	}
	if ParseSortKey("nonsense") != SortRank {
		t.Error("Expected unknown key to fall back to rank")
	}
}
