package feed

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/whaleprotocol/watchdesk/internal/i18n"
	"github.com/whaleprotocol/watchdesk/internal/model"
)

const cardsTmpl = `{{range .}}<div class="card report">
  <div class="report-top">
    <h4>{{.Title}}</h4>
    <span class="badge {{.BadgeClass}}">{{.BadgeLabel}}</span>
  </div>
  <div class="meta">{{.Status}}{{if .Date}} • {{.Date}}{{end}}</div>
  <div class="meta">{{.Evidence}}</div>
  <div class="meta"><a href="{{.Link}}" target="_blank" rel="noopener">{{.LinkLabel}}</a></div>
</div>
{{end}}`

// cardView is the per-card data handed to the template. Text fields were
// stripped at ingestion; the template escapes them again on output.
type cardView struct {
	Title      string
	Status     string
	Evidence   string
	Date       string
	BadgeClass string
	BadgeLabel string
	Link       string
	LinkLabel  string
}

// Renderer renders the report feed as HTML cards.
type Renderer struct {
	catalog    *i18n.Catalog
	profileURL string
	tmpl       *template.Template
}

// NewRenderer returns a feed renderer. profileURL is the canonical fallback
// link for the empty state and for reports without their own link.
func NewRenderer(catalog *i18n.Catalog, profileURL string) *Renderer {
	return &Renderer{
		catalog:    catalog,
		profileURL: profileURL,
		tmpl:       template.Must(template.New("cards").Parse(cardsTmpl)),
	}
}

// Render produces the card grid for the given locale. An empty feed renders
// a single "no reports yet" card with a call-to-action link.
func (r *Renderer) Render(locale i18n.Locale, reports []model.PublishedReport) (template.HTML, error) {
	msg := func(key string) string { return r.catalog.Resolve(locale, key) }

	var views []cardView
	if len(reports) == 0 {
		views = []cardView{{
			Title:      msg(i18n.KeyFeedEmptyTitle),
			Status:     msg(i18n.KeyFeedEmptyHint),
			BadgeClass: string(model.RiskInfo),
			BadgeLabel: msg(i18n.KeyFeedEmptyBadge),
			Link:       r.profileURL,
			LinkLabel:  msg(i18n.KeyFeedViewProfile),
		}}
	} else {
		for _, rep := range reports {
			views = append(views, cardView{
				Title:      pickLocalized(locale, rep.TitleAR, rep.TitleEN),
				Status:     pickLocalized(locale, rep.StatusAR, rep.StatusEN),
				Evidence:   pickLocalized(locale, rep.EvidenceAR, rep.EvidenceEN),
				Date:       rep.Date,
				BadgeClass: string(rep.Risk),
				BadgeLabel: badgeLabel(msg, rep.Risk),
				Link:       rep.Link,
				LinkLabel:  msg(i18n.KeyFeedView),
			})
		}
	}

	var b strings.Builder
	if err := r.tmpl.Execute(&b, views); err != nil {
		return "", fmt.Errorf("render feed: %w", err)
	}
	return template.HTML(b.String()), nil
}

// pickLocalized chooses the active locale's variant, falling back to
// whichever language is present.
func pickLocalized(locale i18n.Locale, ar, en string) string {
	if locale == i18n.LocaleAR {
		if ar != "" {
			return ar
		}
		return en
	}
	if en != "" {
		return en
	}
	return ar
}

func badgeLabel(msg func(string) string, risk model.Risk) string {
	switch risk {
	case model.RiskHigh:
		return msg(i18n.KeyBadgeHigh)
	case model.RiskMedium:
		return msg(i18n.KeyBadgeMedium)
	default:
		return msg(i18n.KeyBadgeInfo)
	}
}
