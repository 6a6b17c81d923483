// Package market ingests and projects the top-20 market activity table.
package market

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/whaleprotocol/watchdesk/internal/model"
)

// rawRow reads each numeric field permissively: numbers, numeric strings,
// or garbage. Anything unparseable becomes NaN and renders as a
// placeholder, never a fault.
type rawRow struct {
	Rank         any `json:"rank"`
	Symbol       any `json:"symbol"`
	Name         any `json:"name"`
	Price        any `json:"price"`
	Volume24h    any `json:"volume_24h"`
	MarketCap    any `json:"market_cap"`
	VolMcapRatio any `json:"vol_mcap_ratio"`
}

type marketDoc struct {
	UpdatedUTC string   `json:"updated_utc"`
	Items      []rawRow `json:"items"`
}

// Decode parses a top20 document into a normalized snapshot. Malformed
// documents yield an empty snapshot; a missing rank defaults to the row's
// position.
func Decode(data []byte) model.MarketSnapshot {
	var doc marketDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.MarketSnapshot{}
	}

	rows := make([]model.MarketRow, 0, len(doc.Items))
	for i, item := range doc.Items {
		rank := toFloat(item.Rank)
		if math.IsNaN(rank) {
			rank = float64(i + 1)
		}
		rows = append(rows, model.MarketRow{
			Rank:         rank,
			Symbol:       toString(item.Symbol),
			Name:         toString(item.Name),
			Price:        toFloat(item.Price),
			Volume24h:    toFloat(item.Volume24h),
			MarketCap:    toFloat(item.MarketCap),
			VolMcapRatio: toFloat(item.VolMcapRatio),
		})
	}
	return model.MarketSnapshot{UpdatedUTC: doc.UpdatedUTC, Rows: rows}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
		return math.NaN()
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
