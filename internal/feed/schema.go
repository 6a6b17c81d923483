// Package feed ingests and renders the published report feed.
package feed

import (
	"encoding/json"

	"github.com/whaleprotocol/watchdesk/internal/model"
)

// rawReport mirrors one record of reports.json. Every field is optional;
// defaulting happens once in Decode so rendering never branches on missing
// data.
type rawReport struct {
	TitleEN    string `json:"title_en"`
	TitleAR    string `json:"title_ar"`
	StatusEN   string `json:"status_en"`
	StatusAR   string `json:"status_ar"`
	EvidenceEN string `json:"evidence_en"`
	EvidenceAR string `json:"evidence_ar"`
	Risk       string `json:"risk"`
	Date       string `json:"date"`
	Link       string `json:"link"`
}

type reportsDoc struct {
	Reports []rawReport `json:"reports"`
}

// Decode parses a reports document: either a bare array of records or an
// object with a "reports" array. Malformed input yields an empty slice,
// never an error; the page treats bad data as "no data". Text fields are
// stripped of markup and links default to fallbackLink.
func Decode(data []byte, fallbackLink string) []model.PublishedReport {
	var raws []rawReport

	var doc reportsDoc
	if err := json.Unmarshal(data, &doc); err == nil && doc.Reports != nil {
		raws = doc.Reports
	} else if err := json.Unmarshal(data, &raws); err != nil {
		return nil
	}

	reports := make([]model.PublishedReport, 0, len(raws))
	for _, r := range raws {
		link := r.Link
		if link == "" {
			link = fallbackLink
		}
		reports = append(reports, model.PublishedReport{
			TitleEN:    StripMarkup(r.TitleEN),
			TitleAR:    StripMarkup(r.TitleAR),
			StatusEN:   StripMarkup(r.StatusEN),
			StatusAR:   StripMarkup(r.StatusAR),
			EvidenceEN: StripMarkup(r.EvidenceEN),
			EvidenceAR: StripMarkup(r.EvidenceAR),
			Risk:       model.ParseRisk(r.Risk),
			Date:       StripMarkup(r.Date),
			Link:       link,
		})
	}
	return reports
}
