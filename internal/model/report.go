package model

import "strings"

// Draft is a transient, form-scoped report draft. It carries no identity
// beyond the current form session and is discarded after send or copy.
type Draft struct {
	ReportType string
	Network    string
	Entity     string
	Address    string
	Links      string // evidence links, free text, comma-separated
	Contact    string
	Details    string
	Honeypot   string // must stay empty; bots fill it
}

// Trimmed returns a copy with every field whitespace-trimmed, matching how
// the form reads its inputs.
func (d Draft) Trimmed() Draft {
	return Draft{
		ReportType: strings.TrimSpace(d.ReportType),
		Network:    strings.TrimSpace(d.Network),
		Entity:     strings.TrimSpace(d.Entity),
		Address:    strings.TrimSpace(d.Address),
		Links:      strings.TrimSpace(d.Links),
		Contact:    strings.TrimSpace(d.Contact),
		Details:    strings.TrimSpace(d.Details),
		Honeypot:   strings.TrimSpace(d.Honeypot),
	}
}

// Risk classifies a published report's severity.
type Risk string

const (
	RiskHigh   Risk = "high"
	RiskMedium Risk = "medium"
	RiskInfo   Risk = "info"
)

// ParseRisk normalizes arbitrary input to a known risk level, defaulting to
// info.
func ParseRisk(s string) Risk {
	switch Risk(strings.ToLower(strings.TrimSpace(s))) {
	case RiskHigh:
		return RiskHigh
	case RiskMedium:
		return RiskMedium
	default:
		return RiskInfo
	}
}

// PublishedReport is an immutable record from the published feed, already
// normalized: defaulting rules are applied once at ingestion so rendering
// never branches on missing fields.
type PublishedReport struct {
	TitleEN    string
	TitleAR    string
	StatusEN   string
	StatusAR   string
	EvidenceEN string
	EvidenceAR string
	Risk       Risk
	Date       string // optional, displayed verbatim
	Link       string // always set; ingestion fills the canonical profile URL
}
