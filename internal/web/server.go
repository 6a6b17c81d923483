// Package web serves the report page, its fragments, and the form actions.
package web

import (
	"crypto/rand"
	"embed"
	"encoding/hex"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/whaleprotocol/watchdesk/internal/feed"
	"github.com/whaleprotocol/watchdesk/internal/form"
	"github.com/whaleprotocol/watchdesk/internal/i18n"
	"github.com/whaleprotocol/watchdesk/internal/mail"
	"github.com/whaleprotocol/watchdesk/internal/market"
	"github.com/whaleprotocol/watchdesk/internal/metrics"
	"github.com/whaleprotocol/watchdesk/internal/model"
	"github.com/whaleprotocol/watchdesk/internal/poll"
	"github.com/whaleprotocol/watchdesk/internal/report"
	"github.com/whaleprotocol/watchdesk/internal/snapshot"
	"github.com/whaleprotocol/watchdesk/internal/state"
)

//go:embed templates/*.tmpl static/*
var assets embed.FS

// Server renders the page and handles form actions. Every failure path
// ends in a rendered state; nothing here returns a broken page.
type Server struct {
	cfg        model.Config
	log        *logrus.Entry
	metrics    *metrics.Metrics
	registry   *prometheus.Registry
	catalog    *i18n.Catalog
	locales    *state.LocaleState
	controller *form.Controller
	feed       *feed.Renderer
	table      *market.Table
	snaps      *snapshot.Store
	tmpl       *template.Template
}

// NewServer wires the page around the snapshot store and preference store.
func NewServer(cfg model.Config, log *logrus.Entry, m *metrics.Metrics, registry *prometheus.Registry, catalog *i18n.Catalog, prefs *state.Store, snaps *snapshot.Store) (*Server, error) {
	tmpl, err := template.ParseFS(assets, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}

	locales := state.NewLocaleState(prefs)
	locales.Subscribe(func(visitor string, locale i18n.Locale) {
		log.WithField("locale", locale).Debug("locale changed")
	})
	guard := report.NewCooldownGuard(prefs, cfg.Report.Cooldown)
	composer := mail.NewComposer(catalog, cfg.Report.Recipient, cfg.Report.PageURL)

	return &Server{
		cfg:        cfg,
		log:        log,
		metrics:    m,
		registry:   registry,
		catalog:    catalog,
		locales:    locales,
		controller: form.NewController(catalog, guard, composer),
		feed:       feed.NewRenderer(catalog, cfg.Report.ProfileURL),
		table:      market.NewTable(i18n.DefaultLocale.Tag()),
		snaps:      snaps,
		tmpl:       tmpl,
	}, nil
}

// Routes mounts all handlers.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/", s.handleIndex)
	r.Post("/locale", s.handleLocale)
	r.Post("/report/submit", s.handleSubmit)
	r.Post("/report/copy", s.handleCopy)
	r.Get("/fragments/reports", s.handleFeedFragment)
	r.Get("/fragments/top20", s.handleTop20Fragment)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Handle("/static/*", http.FileServer(http.FS(assets)))

	return r
}

// observe records request durations per route and logs each request.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		s.log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": elapsed.Milliseconds(),
		}).Debug("request")
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	visitor := s.visitor(w, r)
	// First visit with nothing persisted resolves the locale from the
	// browser; afterwards the persisted choice wins.
	locale := s.locales.Resolve(visitor, r.Header.Get("Accept-Language"))

	key, dir := resolveSort(r)
	s.renderPage(w, locale, model.Draft{}, form.Result{}, r.URL.Query().Get("q"), key, dir)
}

func (s *Server) handleLocale(w http.ResponseWriter, r *http.Request) {
	visitor := s.visitor(w, r)
	s.locales.Set(visitor, r.FormValue("lang"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	visitor := s.visitor(w, r)
	locale := s.locales.Resolve(visitor, r.Header.Get("Accept-Language"))

	provider, err := mail.ParseProvider(r.FormValue("provider"))
	if err != nil {
		provider = mail.ProviderMailto
	}

	draft := parseDraft(r)
	res, err := s.controller.Send(visitor, locale, draft, provider)
	if err != nil {
		s.log.WithError(err).Error("send failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.metrics.Submissions.WithLabelValues(res.Outcome.String()).Inc()
	if res.Outcome == report.Accepted {
		s.metrics.ComposeLaunches.WithLabelValues(string(provider)).Inc()
		// The draft is discarded after an accepted send.
		draft = model.Draft{}
	}
	key, dir := resolveSort(r)
	s.renderPage(w, locale, draft, res, "", key, dir)
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	visitor := s.visitor(w, r)
	locale := s.locales.Resolve(visitor, r.Header.Get("Accept-Language"))

	draft := parseDraft(r)
	res, err := s.controller.Copy(visitor, locale, draft)
	if err != nil {
		s.log.WithError(err).Error("copy failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.metrics.Submissions.WithLabelValues(res.Outcome.String()).Inc()
	if res.Outcome == report.Accepted {
		draft = model.Draft{}
	}
	key, dir := resolveSort(r)
	s.renderPage(w, locale, draft, res, "", key, dir)
}

func (s *Server) handleFeedFragment(w http.ResponseWriter, r *http.Request) {
	visitor := s.visitor(w, r)
	locale := s.locales.Resolve(visitor, r.Header.Get("Accept-Language"))

	fragment, err := s.feed.Render(locale, s.loadReports())
	if err != nil {
		s.log.WithError(err).Error("feed render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(fragment))
}

func (s *Server) handleTop20Fragment(w http.ResponseWriter, r *http.Request) {
	key, dir := resolveSort(r)
	view := s.buildTableView(r.URL.Query().Get("q"), key, dir)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "top20", view); err != nil {
		s.log.WithError(err).Error("table render failed")
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// visitorCookie identifies a browser across requests so locale and cooldown
// state stay scoped to it.
const visitorCookie = "wpo_id"

// visitor returns the request's visitor id, minting and setting one when the
// cookie is absent.
func (s *Server) visitor(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(visitorCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := newVisitorID()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func newVisitorID() string {
	b := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b)
}

// resolveSort derives the sort state from the request alone. Explicit
// sort/dir parameters set the base state; a click parameter applies the
// header-click transition on top of it, so the server keeps no per-visitor
// sort session.
func resolveSort(r *http.Request) (market.SortKey, market.Dir) {
	q := r.URL.Query()
	key := market.ParseSortKey(q.Get("sort"))
	dir := market.ParseDir(q.Get("dir"), key)
	if click := q.Get("click"); click != "" {
		key, dir = market.NextSort(key, dir, market.ParseSortKey(click))
	}
	return key, dir
}

// loadReports decodes the current feed snapshot. A missing or malformed
// snapshot reads as an empty feed.
func (s *Server) loadReports() []model.PublishedReport {
	data, _, ok := s.snaps.Get(poll.SourceReports)
	if !ok {
		return nil
	}
	return feed.Decode(data, s.cfg.Report.ProfileURL)
}

// buildTableView refreshes the table's row set from the latest snapshot
// and derives the visible projection for the requested sort state.
func (s *Server) buildTableView(query string, key market.SortKey, dir market.Dir) tableView {
	if data, _, ok := s.snaps.Get(poll.SourceTop20); ok {
		s.table.SetSnapshot(market.Decode(data))
	}
	return newTableView(s.table.UpdatedUTC(), query, key, dir, s.table.Visible(query, key, dir))
}

func (s *Server) renderPage(w http.ResponseWriter, locale i18n.Locale, draft model.Draft, res form.Result, query string, key market.SortKey, dir market.Dir) {
	fragment, err := s.feed.Render(locale, s.loadReports())
	if err != nil {
		s.log.WithError(err).Error("feed render failed")
		fragment = ""
	}

	toggleTarget := i18n.LocaleAR
	toggleLabel := "AR"
	if locale == i18n.LocaleAR {
		toggleTarget = i18n.LocaleEN
		toggleLabel = "EN"
	}

	data := pageData{
		catalog:         s.catalog,
		Locale:          locale,
		Dir:             locale.Direction(),
		ToggleLabel:     toggleLabel,
		ToggleTarget:    string(toggleTarget),
		Draft:           draft,
		ReportTypes:     reportTypes,
		Panel:           res.Panel,
		PanelMessage:    res.PanelMessage,
		PanelAutoHideMS: res.PanelAutoHide.Milliseconds(),
		Navigate:        res.Navigate,
		CopyText:        res.CopyText,
		AlertOnFailure:  res.AlertOnFailure,
		Feed:            fragment,
		Table:           s.buildTableView(query, key, dir),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "page", data); err != nil {
		s.log.WithError(err).Error("page render failed")
	}
}

// parseDraft reads the form fields. The honeypot input is named after a
// plausible business field so bots fill it.
func parseDraft(r *http.Request) model.Draft {
	return model.Draft{
		ReportType: r.FormValue("reportType"),
		Network:    r.FormValue("network"),
		Entity:     r.FormValue("entity"),
		Address:    r.FormValue("address"),
		Links:      r.FormValue("links"),
		Contact:    r.FormValue("contact"),
		Details:    r.FormValue("details"),
		Honeypot:   r.FormValue("company"),
	}
}
