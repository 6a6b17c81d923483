package web

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"github.com/whaleprotocol/watchdesk/internal/form"
	"github.com/whaleprotocol/watchdesk/internal/i18n"
	"github.com/whaleprotocol/watchdesk/internal/market"
	"github.com/whaleprotocol/watchdesk/internal/model"
)

// reportTypes populates the form's type selector.
var reportTypes = []string{
	"Fraudulent Token",
	"Phishing Website",
	"Scam Wallet/Address",
	"Fake Airdrop",
	"Impersonation",
	"Other",
}

// pageData drives the full page template.
type pageData struct {
	catalog *i18n.Catalog

	Locale       i18n.Locale
	Dir          string
	ToggleLabel  string
	ToggleTarget string

	Draft       model.Draft
	ReportTypes []string

	Panel           form.Panel
	PanelMessage    string
	PanelAutoHideMS int64
	Navigate        string
	CopyText        string
	AlertOnFailure  string

	Feed  template.HTML
	Table tableView
}

// Msg resolves a catalog key in the page's locale.
func (p pageData) Msg(key string) string {
	return p.catalog.Resolve(p.Locale, key)
}

// rowView is one formatted table row.
type rowView struct {
	Rank      string
	Symbol    string
	Name      string
	Volume    string
	MarketCap string
	Price     string
	Ratio     string
	BarWidth  int
}

// tableView drives the top20 fragment template. SortKey and SortDir are the
// state this view was rendered with; header links derive the next state from
// them, so sorting needs no server-side session.
type tableView struct {
	UpdatedUTC string
	Query      string
	CountLine  string
	SortKey    market.SortKey
	SortDir    market.Dir
	Rows       []rowView
}

// SortHref builds the header-click link for a column, preserving the
// active filter query.
func (v tableView) SortHref(key string) string {
	next, dir := market.NextSort(v.SortKey, v.SortDir, market.ParseSortKey(key))
	href := "/?sort=" + url.QueryEscape(string(next)) + "&dir=" + url.QueryEscape(string(dir))
	if v.Query != "" {
		href += "&q=" + url.QueryEscape(v.Query)
	}
	return href
}

// newTableView formats the visible rows for display.
func newTableView(updatedUTC, query string, key market.SortKey, dir market.Dir, rows []model.MarketRow) tableView {
	views := make([]rowView, 0, len(rows))
	for _, r := range rows {
		symbol := r.Symbol
		if symbol == "" {
			symbol = market.Placeholder
		}
		views = append(views, rowView{
			Rank:      strconv.Itoa(int(r.Rank)),
			Symbol:    symbol,
			Name:      r.Name,
			Volume:    market.FormatCompact(r.Volume24h),
			MarketCap: market.FormatCompact(r.MarketCap),
			Price:     market.FormatPrice(r.Price),
			Ratio:     market.FormatPercent(r.VolMcapRatio),
			BarWidth:  market.BarWidth(r.VolMcapRatio),
		})
	}
	return tableView{
		UpdatedUTC: updatedUTC,
		Query:      query,
		CountLine:  fmt.Sprintf("%d coins shown", len(views)),
		SortKey:    key,
		SortDir:    dir,
		Rows:       views,
	}
}
