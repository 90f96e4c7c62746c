package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mwiater/prefdash/internal/dashboard"
	"github.com/mwiater/prefdash/internal/dataset"
	"github.com/mwiater/prefdash/internal/session"
)

const domainCSV = `domain,model,answer,percentage
D1,M1,A,30
D1,M1,B,70
D1,M2,A,50
D2,M1,C,40
`

const countryCSV = `domain,model,actor,answer,percentage
Escalation - Two Choice,M1,United States,Attack,60
Escalation - Two Choice,M1,China,Attack,30
Escalation - Two Choice,M2,China,Attack,45
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	paths := map[dataset.Name]string{
		dataset.DomainLevel:  filepath.Join(dir, "domain.csv"),
		dataset.CountryLevel: filepath.Join(dir, "country.csv"),
	}
	if err := os.WriteFile(paths[dataset.DomainLevel], []byte(domainCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths[dataset.CountryLevel], []byte(countryCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	dash := dashboard.New(dataset.NewCache(dataset.Loader{Paths: paths}), nil)
	return New(dash, session.NewMemory(), Options{ChartWidth: 640, ChartHeight: 320})
}

func do(t *testing.T, s *Server, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) viewResponse {
	t.Helper()
	var resp viewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode view: %v\n%s", err, rec.Body.String())
	}
	return resp
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(t), "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestViewEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, "/api/views/domain", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("ETag") == "" {
		t.Fatal("expected an ETag header")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || session.ValidateID(cookies[0].Value) != nil {
		t.Fatalf("expected a session cookie, got %+v", cookies)
	}

	resp := decodeView(t, rec)
	if !resp.OK || resp.View.Heading != "Distribution of Responses for D1" {
		t.Fatalf("unexpected view: %+v", resp.View)
	}
	if len(resp.ECharts) != 1 || resp.ECharts[0] == nil {
		t.Fatalf("expected one echarts option, got %d", len(resp.ECharts))
	}
	opt := resp.ECharts[0]
	if diff := cmp.Diff([]string{"M1", "M2"}, opt.XAxis.Data); diff != "" {
		t.Fatalf("x axis mismatch (-want +got):\n%s", diff)
	}
	if opt.YAxis.Min == nil || *opt.YAxis.Min != 0 || opt.YAxis.Max == nil || *opt.YAxis.Max != 100 {
		t.Fatalf("value axis must be [0,100], got %+v", opt.YAxis)
	}
	if diff := cmp.Diff([]float64{70, 0}, opt.Series[1].Data); diff != "" {
		t.Fatalf("series B mismatch (-want +got):\n%s", diff)
	}
}

func TestViewEndpointNotModified(t *testing.T) {
	s := newTestServer(t)
	first := do(t, s, "/api/views/domain?domain=D1", nil)
	tag := first.Header().Get("ETag")

	second := do(t, s, "/api/views/domain?domain=D1", http.Header{"If-None-Match": {tag}})
	if second.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", second.Code)
	}
	if second.Body.Len() != 0 {
		t.Fatal("304 must not carry a body")
	}

	third := do(t, s, "/api/views/domain?domain=D2", http.Header{"If-None-Match": {tag}})
	if third.Code != http.StatusOK {
		t.Fatalf("changed view should be re-sent, got %d", third.Code)
	}
}

func TestViewEndpointExplicitEmpty(t *testing.T) {
	rec := do(t, newTestServer(t), "/api/views/domain?model=&model=+", nil)
	resp := decodeView(t, rec)
	if resp.View.Message != "No data after filtering by model(s) and response(s)." {
		t.Fatalf("unexpected message %q", resp.View.Message)
	}
	if len(resp.ECharts) != 0 {
		t.Fatalf("expected no charts, got %d", len(resp.ECharts))
	}
}

func TestSessionsResumeAndStayIsolated(t *testing.T) {
	s := newTestServer(t)
	alice := &http.Cookie{Name: CookieName, Value: session.NewID()}
	bob := &http.Cookie{Name: CookieName, Value: session.NewID()}
	withCookie := func(c *http.Cookie) http.Header {
		return http.Header{"Cookie": {c.String()}}
	}

	do(t, s, "/api/views/domain?answer=A", withCookie(alice))

	resp := decodeView(t, do(t, s, "/api/views/domain", withCookie(alice)))
	answers, _ := resp.View.Stage(dataset.ColumnAnswer)
	if diff := cmp.Diff([]string{"A"}, answers.Selected); diff != "" {
		t.Fatalf("alice's answers not resumed (-want +got):\n%s", diff)
	}

	resp = decodeView(t, do(t, s, "/api/views/domain", withCookie(bob)))
	answers, _ = resp.View.Stage(dataset.ColumnAnswer)
	if diff := cmp.Diff([]string{"A", "B"}, answers.Selected); diff != "" {
		t.Fatalf("bob should see defaults (-want +got):\n%s", diff)
	}
}

func TestViewEndpointErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		target string
		want   string
	}{
		{target: "/api/views/domian", want: `did you mean \"domain\"`},
		{target: "/api/views/domain?preset=nope", want: "unknown preset"},
		{target: "/api/views/domain?preset=us-escalation", want: "targets another pipeline"},
		{target: "/api/views/domain?stacked=maybe", want: "invalid stacked value"},
	}
	for _, tt := range tests {
		rec := do(t, s, tt.target, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", tt.target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"ok":false`) || !strings.Contains(rec.Body.String(), tt.want) {
			t.Fatalf("%s: unexpected body %s", tt.target, rec.Body.String())
		}
	}
}

func TestPresetOnActorPipeline(t *testing.T) {
	resp := decodeView(t, do(t, newTestServer(t), "/api/views/actor?preset=us-escalation", nil))
	if resp.View.Outcome != dashboard.OutcomeOK {
		t.Fatalf("unexpected outcome %q: %s", resp.View.Outcome, resp.View.Message)
	}
	actors, _ := resp.View.Stage(dataset.ColumnActor)
	if diff := cmp.Diff([]string{"United States"}, actors.Selected); diff != "" {
		t.Fatalf("actor mismatch (-want +got):\n%s", diff)
	}
	if len(resp.ECharts) != 1 || !resp.ECharts[0].Legend.Show {
		t.Fatalf("expected one chart with a legend, got %d", len(resp.ECharts))
	}
}

func TestChartEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, "/charts/domain/0?format=svg&stacked=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Fatal("expected an svg document")
	}

	if rec := do(t, s, "/charts/domain/3", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing chart status = %d", rec.Code)
	}
	if rec := do(t, s, "/charts/domain/0?format=gif", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad format status = %d", rec.Code)
	}
	if rec := do(t, s, "/charts/domain/x", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad index status = %d", rec.Code)
	}
}

func TestPresetsEndpoint(t *testing.T) {
	rec := do(t, newTestServer(t), "/api/presets", nil)
	var resp presetsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || len(resp.Presets) != len(dashboard.DefaultPresets().List()) {
		t.Fatalf("unexpected presets response: %+v", resp)
	}
}

func TestPage(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{
		"LLM Bias Dashboard",
		"Distribution of Responses for D1",
		"Response Distribution by LLMs",
		"echarts.init",
		`name="answer" value=""`,
		"Country-Level",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page", want)
		}
	}

	rec = do(t, s, "/?preset=us-escalation", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "United States") {
		t.Fatalf("preset page status = %d", rec.Code)
	}

	if rec := do(t, s, "/?pipeline=nope", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown pipeline page status = %d", rec.Code)
	}
}

func TestDomainChangeDropsLaterFields(t *testing.T) {
	s := newTestServer(t)
	body := do(t, s, "/?pipeline=domain&domain=D1&answer=A&model=M1", nil).Body.String()
	for _, want := range []string{
		`name="domain" data-stage="0" data-resets onchange="submitStage(this)"`,
		`name="answer" value="" data-stage="1"`,
		`name="model" multiple size="6" data-stage="2" onchange="submitStage(this)"`,
		"function submitStage(el)",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page", want)
		}
	}

	// the form a domain change submits carries no later stages
	rec := do(t, s, "/api/views/domain?domain=D2&stacked=false", nil)
	resp := decodeView(t, rec)
	answer, ok := resp.View.Stage(dataset.ColumnAnswer)
	if !ok {
		t.Fatal("missing answer stage")
	}
	if diff := cmp.Diff([]string{"C"}, answer.Selected); diff != "" {
		t.Fatalf("answer mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSelection(t *testing.T) {
	p, _ := dashboard.LookupPipeline("domain")
	q, _ := url.ParseQuery("answer=&model=M1&model=%20M2%20&stacked")
	sel, err := parseSelection(q, p, dashboard.DefaultPresets(), false)
	if err != nil {
		t.Fatal(err)
	}
	if !sel.explicit || !sel.stackedSet || !sel.state.Stacked {
		t.Fatalf("unexpected flags: %+v", sel)
	}
	if got, ok := sel.state.Chosen(dataset.ColumnAnswer); !ok || len(got) != 0 {
		t.Fatalf("blank answer should select nothing, got %v set=%v", got, ok)
	}
	if got, _ := sel.state.Chosen(dataset.ColumnModel); !cmp.Equal([]string{"M1", "M2"}, got) {
		t.Fatalf("models = %v", got)
	}
	if _, ok := sel.state.Chosen(dataset.ColumnDomain); ok {
		t.Fatal("absent domain should stay unset")
	}

	sel, err = parseSelection(url.Values{}, p, dashboard.DefaultPresets(), true)
	if err != nil || sel.explicit || !sel.state.Stacked {
		t.Fatalf("empty query: %+v err=%v", sel, err)
	}
}

func TestStateQuery(t *testing.T) {
	state := dashboard.NewState(dashboard.PipelineDomain).
		With(dataset.ColumnDomain, []string{"D1"}).
		With(dataset.ColumnModel, nil)
	got := stateQuery(state).Encode()
	want := "domain=D1&model=&stacked=false"
	if got != want {
		t.Fatalf("stateQuery = %q, want %q", got, want)
	}
}
