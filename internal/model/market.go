package model

// MarketRow is one normalized row of the top-20 market table. Numeric
// fields that failed to parse hold NaN; renderers turn non-finite values
// into a placeholder and sorts order them last.
type MarketRow struct {
	Rank         float64
	Symbol       string
	Name         string
	Price        float64
	Volume24h    float64
	MarketCap    float64
	VolMcapRatio float64 // volume / market cap, conceptually a percentage
}

// MarketSnapshot is the full fetched row set plus the source timestamp,
// displayed verbatim.
type MarketSnapshot struct {
	UpdatedUTC string
	Rows       []MarketRow
}
