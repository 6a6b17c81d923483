package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/whaleprotocol/watchdesk/internal/i18n"
	"github.com/whaleprotocol/watchdesk/internal/logging"
	"github.com/whaleprotocol/watchdesk/internal/metrics"
	"github.com/whaleprotocol/watchdesk/internal/model"
	"github.com/whaleprotocol/watchdesk/internal/poll"
	"github.com/whaleprotocol/watchdesk/internal/snapshot"
	"github.com/whaleprotocol/watchdesk/internal/state"
)

func newTestServer(t *testing.T) (*Server, *snapshot.Store) {
	t.Helper()

	cfg := model.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Report.Cooldown = 30 * time.Second

	prefs, err := state.Open(cfg.DataDir)
	if err != nil {
		t.Fatal(err)
	}
	snaps, err := snapshot.NewStore(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	registry := prometheus.NewRegistry()
	s, err := NewServer(cfg, logging.New("test"), metrics.New(registry), registry, i18n.NewCatalog(), prefs, snaps)
	if err != nil {
		t.Fatal(err)
	}
	return s, snaps
}

// browser carries cookies between requests, so a sequence of calls acts as
// one visitor.
type browser struct {
	t       *testing.T
	s       *Server
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, s *Server) *browser {
	return &browser{t: t, s: s, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.s.Routes().ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) getWithHeader(path, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(header, value)
	return b.do(req)
}

func (b *browser) post(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func validForm() url.Values {
	return url.Values{
		"reportType": {"Fraudulent Token"},
		"details":    {"rug pull after launch"},
		"links":      {"https://etherscan.io/tx/0x1"},
	}
}

func TestIndex_RendersEmptyStates(t *testing.T) {
	s, _ := newTestServer(t)

	rec := newBrowser(t, s).get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	body := rec.Body.String()

	if !strings.Contains(body, `dir="ltr"`) {
		t.Error("Expected LTR page by default")
	}
	if !strings.Contains(body, "No reports yet") {
		t.Error("Expected feed empty state")
	}
	if !strings.Contains(body, "0 coins shown") {
		t.Error("Expected empty table count")
	}
	if strings.Contains(body, "statusPanel") {
		t.Error("Fresh page must not show a status panel")
	}
}

func TestIndex_SetsVisitorCookie(t *testing.T) {
	s, _ := newTestServer(t)

	rec := newBrowser(t, s).get("/")
	var id string
	for _, c := range rec.Result().Cookies() {
		if c.Name == visitorCookie {
			id = c.Value
		}
	}
	if id == "" {
		t.Fatal("Expected a visitor id cookie on first visit")
	}
}

func TestIndex_ArabicLocaleFromHeaderOnFirstVisit(t *testing.T) {
	s, _ := newTestServer(t)

	body := newBrowser(t, s).getWithHeader("/", "Accept-Language", "ar-EG,ar;q=0.9").Body.String()
	if !strings.Contains(body, `dir="rtl"`) || !strings.Contains(body, `lang="ar"`) {
		t.Error("Expected RTL Arabic page for Arabic browser")
	}
}

func TestLocaleSwitch_PersistsAndRerenders(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(t, s)

	rec := b.post("/locale", url.Values{"lang": {"ar"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /locale = %d", rec.Code)
	}

	// The same visitor's persisted choice wins over the browser header.
	body := b.getWithHeader("/", "Accept-Language", "en-US").Body.String()
	if !strings.Contains(body, `dir="rtl"`) {
		t.Error("Expected persisted Arabic locale to win over header")
	}
	if !strings.Contains(body, "لا توجد تقارير بعد") {
		t.Error("Expected Arabic feed empty state")
	}
}

func TestLocaleSwitch_DoesNotLeakToOtherVisitors(t *testing.T) {
	s, _ := newTestServer(t)

	alice := newBrowser(t, s)
	alice.post("/locale", url.Values{"lang": {"ar"}})

	// A different browser still gets its own locale.
	bob := newBrowser(t, s)
	body := bob.getWithHeader("/", "Accept-Language", "en-US").Body.String()
	if !strings.Contains(body, `dir="ltr"`) {
		t.Error("One visitor's locale switch re-skinned another visitor's page")
	}
}

func TestSubmit_AcceptedNavigatesToMailto(t *testing.T) {
	s, _ := newTestServer(t)

	rec := newBrowser(t, s).post("/report/submit", validForm())
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /report/submit = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "mailto:") {
		t.Error("Expected mailto navigation in response")
	}
}

func TestSubmit_ProviderButtons(t *testing.T) {
	s, _ := newTestServer(t)

	v := validForm()
	v.Set("provider", "gmail")
	body := newBrowser(t, s).post("/report/submit", v).Body.String()
	if !strings.Contains(body, "mail.google.com") {
		t.Error("Expected Gmail compose target")
	}
}

func TestSubmit_MissingCoreShowsWarnPanel(t *testing.T) {
	s, _ := newTestServer(t)

	body := newBrowser(t, s).post("/report/submit", url.Values{"details": {"x"}}).Body.String()
	if !strings.Contains(body, `class="status warn"`) {
		t.Error("Expected warn status panel")
	}
	if strings.Contains(body, "mailto:") {
		t.Error("Rejected submit must not navigate")
	}
}

func TestSubmit_HoneypotIsSilent(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(t, s)

	v := validForm()
	v.Set("company", "Totally Real LLC")
	body := b.post("/report/submit", v).Body.String()

	if strings.Contains(body, "statusPanel") || strings.Contains(body, "mailto:") {
		t.Error("Honeypot submission must look like inaction")
	}

	// The same visitor's next legitimate submit is not cooldown-blocked by
	// the bot attempt.
	body = b.post("/report/submit", validForm()).Body.String()
	if !strings.Contains(body, "mailto:") {
		t.Error("Expected legitimate submit accepted after bot attempt")
	}
}

func TestSubmit_CooldownPanelOnResend(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(t, s)

	b.post("/report/submit", validForm())
	body := b.post("/report/submit", validForm()).Body.String()
	if !strings.Contains(body, `class="status cooldown"`) {
		t.Error("Expected cooldown panel on immediate resend")
	}
}

func TestSubmit_CooldownIsScopedToVisitor(t *testing.T) {
	s, _ := newTestServer(t)

	alice := newBrowser(t, s)
	if body := alice.post("/report/submit", validForm()).Body.String(); !strings.Contains(body, "mailto:") {
		t.Fatal("Expected first visitor's send accepted")
	}

	// A different browser's first-ever report right after is accepted.
	bob := newBrowser(t, s)
	body := bob.post("/report/submit", validForm()).Body.String()
	if strings.Contains(body, `class="status cooldown"`) {
		t.Error("One visitor's cooldown throttled another visitor")
	}
	if !strings.Contains(body, "mailto:") {
		t.Error("Expected second visitor's send accepted")
	}

	// While the first visitor's own resend is still throttled.
	if body := alice.post("/report/submit", validForm()).Body.String(); !strings.Contains(body, `class="status cooldown"`) {
		t.Error("Expected the sender's own resend cooldown-rejected")
	}
}

func TestCopy_ReturnsRenderedBody(t *testing.T) {
	s, _ := newTestServer(t)

	body := newBrowser(t, s).post("/report/copy", validForm()).Body.String()
	if !strings.Contains(body, `id="copySource"`) {
		t.Error("Expected copy source textarea")
	}
	if !strings.Contains(body, "Report Type: Fraudulent Token") {
		t.Error("Expected rendered report body in copy source")
	}
	if !strings.Contains(body, `class="status ok"`) {
		t.Error("Expected success panel")
	}
}

func TestFeedFragment_RendersSnapshot(t *testing.T) {
	s, snaps := newTestServer(t)
	if err := snaps.Put(poll.SourceReports, []byte(`{"reports":[{"title_en":"Fake airdrop","risk":"high"}]}`)); err != nil {
		t.Fatal(err)
	}

	body := newBrowser(t, s).get("/fragments/reports").Body.String()
	if !strings.Contains(body, "Fake airdrop") || !strings.Contains(body, "badge high") {
		t.Errorf("Unexpected feed fragment:\n%s", body)
	}
}

func TestTop20Fragment_FormatsAndFilters(t *testing.T) {
	s, snaps := newTestServer(t)
	doc := `{"updated_utc":"2025-06-01 12:00","items":[
		{"rank":1,"symbol":"BTC","name":"Bitcoin","price":64000.5,"volume_24h":32000000000,"market_cap":1200000000000,"vol_mcap_ratio":0.026},
		{"rank":2,"symbol":"XYZ","name":"Mystery","price":"abc"}
	]}`
	if err := snaps.Put(poll.SourceTop20, []byte(doc)); err != nil {
		t.Fatal(err)
	}
	b := newBrowser(t, s)

	body := b.get("/fragments/top20").Body.String()
	if !strings.Contains(body, "Updated (UTC): 2025-06-01 12:00") {
		t.Error("Expected verbatim updated timestamp")
	}
	if !strings.Contains(body, "32B") || !strings.Contains(body, "1.2T") {
		t.Errorf("Expected compact volume and market cap:\n%s", body)
	}
	if !strings.Contains(body, "64,000.5") {
		t.Error("Expected formatted price")
	}
	if !strings.Contains(body, "2.60%") {
		t.Error("Expected percentage ratio")
	}
	// The unparseable price renders as a placeholder, not NaN.
	if strings.Contains(body, "NaN") {
		t.Error("NaN leaked into rendered table")
	}
	if !strings.Contains(body, "—") {
		t.Error("Expected placeholder for unparseable price")
	}

	// Filtering is a pure subset.
	filtered := b.get("/fragments/top20?q=bit").Body.String()
	if !strings.Contains(filtered, "BTC") || strings.Contains(filtered, "XYZ") {
		t.Errorf("Unexpected filter result:\n%s", filtered)
	}
	if !strings.Contains(filtered, "1 coins shown") {
		t.Error("Expected filtered count line")
	}
}

func TestTop20Fragment_ClickFlipsDirection(t *testing.T) {
	s, snaps := newTestServer(t)
	doc := `{"items":[
		{"rank":1,"symbol":"AAA","volume_24h":100},
		{"rank":2,"symbol":"BBB","volume_24h":200}
	]}`
	if err := snaps.Put(poll.SourceTop20, []byte(doc)); err != nil {
		t.Fatal(err)
	}
	b := newBrowser(t, s)

	// First click on volume sorts descending.
	body := b.get("/fragments/top20?click=volume_24h").Body.String()
	if strings.Index(body, "BBB") > strings.Index(body, "AAA") {
		t.Error("Expected descending volume after first click")
	}

	// A click carrying the resulting state flips to ascending.
	body = b.get("/fragments/top20?click=volume_24h&sort=volume_24h&dir=desc").Body.String()
	if strings.Index(body, "AAA") > strings.Index(body, "BBB") {
		t.Error("Expected ascending volume after second click")
	}
}

func TestTop20Fragment_SortIsPerRequestNotShared(t *testing.T) {
	s, snaps := newTestServer(t)
	doc := `{"items":[
		{"rank":1,"symbol":"AAA","volume_24h":100},
		{"rank":2,"symbol":"BBB","volume_24h":200}
	]}`
	if err := snaps.Put(poll.SourceTop20, []byte(doc)); err != nil {
		t.Fatal(err)
	}
	b := newBrowser(t, s)

	// One request sorting by volume must not change what a plain request
	// sees next.
	b.get("/fragments/top20?sort=volume_24h&dir=desc")
	body := b.get("/fragments/top20").Body.String()
	if strings.Index(body, "AAA") > strings.Index(body, "BBB") {
		t.Error("Expected rank order for a request without sort parameters")
	}
}

func TestMalformedSnapshotsRenderEmptyStates(t *testing.T) {
	s, snaps := newTestServer(t)
	// Valid JSON, wrong shape for both documents.
	if err := snaps.Put(poll.SourceReports, []byte(`"not a feed"`)); err != nil {
		t.Fatal(err)
	}
	if err := snaps.Put(poll.SourceTop20, []byte(`{"items":"nope"}`)); err != nil {
		t.Fatal(err)
	}

	rec := newBrowser(t, s).get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d with malformed snapshots", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "No reports yet") {
		t.Error("Expected feed empty state for malformed feed")
	}
	if !strings.Contains(body, "0 coins shown") {
		t.Error("Expected empty table for malformed market data")
	}
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := newBrowser(t, s).get("/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(t, s)
	b.post("/report/submit", validForm())

	body := b.get("/metrics").Body.String()
	if !strings.Contains(body, "watchdesk_submissions_total") {
		t.Error("Expected submission counter exposed")
	}
}
