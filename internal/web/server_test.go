package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/StoreDirectory/internal/config"
	"github.com/JonMunkholm/StoreDirectory/internal/core"
)

const storesCSV = `Store Name,Store Number,Physical Address - City,Market,Market Team Name,Country/Region,Store Status
Alpha Store,R001,Springfield,Central,Team A,United States,Open
Beta Store,R002,Shelbyville,East,Team B,Canada,Upcoming
"Gamma, The Store",R003,Springfield,Central,Team A,United States,Closed
Bad,Row
`

type stubFetcher struct {
	mu   sync.Mutex
	text string
	err  error
}

func (f *stubFetcher) Fetch(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text, f.err
}

func (f *stubFetcher) String() string { return "stub://stores.csv" }

func (f *stubFetcher) set(text string, err error) {
	f.mu.Lock()
	f.text, f.err = text, err
	f.mu.Unlock()
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		UI:     config.UIConfig{Title: "Store Directory", SearchDebounce: 300 * time.Millisecond},
		Rate:   config.RateLimitConfig{Enabled: false, RequestsPerMinute: 300, ReloadLimit: 5},
		Security: config.SecurityConfig{
			EnableCSP: true,
		},
	}
}

// newTestServer builds a server over the stub fetcher. When load is true
// the sample dataset is loaded first.
func newTestServer(t *testing.T, cfg *config.Config, load bool) (*Server, *core.Service, *stubFetcher) {
	t.Helper()
	fetcher := &stubFetcher{text: storesCSV}
	svc, err := core.NewService(fetcher, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if load {
		if _, err := svc.Load(context.Background()); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
	}
	srv := NewServer(svc, cfg)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, svc, fetcher
}

func do(t *testing.T, srv *Server, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

var htmx = map[string]string{"HX-Request": "true"}

func TestIndex_Loaded(t *testing.T) {
	srv, _, _ := newTestServer(t, testConfig(), true)

	rec := do(t, srv, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"Alpha Store", "Beta Store", "Gamma, The Store",
		`id="totalStores">3<`, `id="openStores">1<`, `id="upcomingStores">1<`, `id="totalCountries">2<`,
		"Found 3 stores", "1 row skipped", "delay:300ms",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	if csp := rec.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "https://unpkg.com") {
		t.Errorf("CSP = %q, want unpkg allowed", csp)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
}

func TestIndex_FilteredStatsUseMaster(t *testing.T) {
	srv, _, _ := newTestServer(t, testConfig(), true)

	body := do(t, srv, http.MethodGet, "/?country=canada", nil).Body.String()
	if !strings.Contains(body, "Found 1 store<") {
		t.Errorf("expected one result")
	}
	if !strings.Contains(body, `id="totalStores">3<`) {
		t.Errorf("stats should cover the whole dataset")
	}
	if !strings.Contains(body, `value="canada"`) {
		t.Errorf("filter value not echoed")
	}
}

func TestIndex_NotLoaded(t *testing.T) {
	srv, svc, fetcher := newTestServer(t, testConfig(), false)
	fetcher.set("", errors.New("fetch stub: unexpected status 500 Internal Server Error"))
	_, _ = svc.Load(context.Background())

	rec := do(t, srv, http.MethodGet, "/", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	body := rec.Body.String()
	// The cause of the failed load is reported, not just "not loaded".
	if !strings.Contains(body, "The data server returned an error") || !strings.Contains(body, "LOAD001") {
		t.Errorf("missing load error: %s", body)
	}
	if !strings.Contains(body, "Found 0 stores") {
		t.Errorf("results area should still render")
	}
}

func TestResults_Partial(t *testing.T) {
	srv, _, _ := newTestServer(t, testConfig(), true)

	tests := []struct {
		name   string
		target string
		want   []string
		absent []string
	}{
		{"global search", "/stores?q=ALPHA", []string{"Found 1 store<", "Alpha Store"}, []string{"Beta Store"}},
		{"search by number", "/stores?q=r00", []string{"Found 3 stores"}, nil},
		{"structured filter", "/stores?city=spring&market=central", []string{"Found 2 stores", "Alpha Store", "Gamma, The Store"}, []string{"Beta Store"}},
		{"query wins over filters", "/stores?q=beta&city=springfield", []string{"Found 1 store<", "Beta Store"}, []string{"Alpha Store"}},
		{"blank query falls back to filters", "/stores?q=%20&country=canada", []string{"Beta Store"}, []string{"Alpha Store"}},
		{"no match", "/stores?q=zzz", []string{"Found 0 stores", "No stores found"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, tt.target, htmx)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			body := rec.Body.String()
			if strings.Contains(body, "<!DOCTYPE html>") {
				t.Error("partial should not render the full page")
			}
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("body missing %q", w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(body, a) {
					t.Errorf("body should not contain %q", a)
				}
			}
		})
	}
}

func TestStoreDetail(t *testing.T) {
	srv, _, _ := newTestServer(t, testConfig(), true)

	t.Run("modal for htmx", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/store/1", htmx)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `id="storeModal"`) || !strings.Contains(body, "Beta Store") {
			t.Errorf("unexpected modal: %s", body)
		}
		if strings.Contains(body, "<!DOCTYPE html>") {
			t.Error("modal should be a fragment")
		}
	})

	t.Run("page otherwise", func(t *testing.T) {
		body := do(t, srv, http.MethodGet, "/store/2", nil).Body.String()
		if !strings.HasPrefix(body, "<!DOCTYPE html>") || !strings.Contains(body, "Gamma, The Store") {
			t.Errorf("unexpected page: %s", body)
		}
	})

	for _, target := range []string{"/store/3", "/store/-1", "/store/abc"} {
		t.Run("not found "+target, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, target, htmx)
			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "DIR002") {
				t.Errorf("body = %s, want DIR002", rec.Body.String())
			}
		})
	}
}

func TestAPIStores(t *testing.T) {
	srv, _, _ := newTestServer(t, testConfig(), true)

	rec := do(t, srv, http.MethodGet, "/api/stores?city=springfield", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp storesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 || resp.Count != 2 {
		t.Errorf("total/count = %d/%d, want 3/2", resp.Total, resp.Count)
	}
	if resp.Stores[0].Pos != 0 || resp.Stores[1].Pos != 2 {
		t.Errorf("positions = %d,%d, want 0,2", resp.Stores[0].Pos, resp.Stores[1].Pos)
	}
	if resp.Criteria[core.FieldCity] != "springfield" {
		t.Errorf("criteria = %v", resp.Criteria)
	}
	if got := resp.Stores[1].Record.Get("Store Name"); got != "Gamma, The Store" {
		t.Errorf("second store = %q", got)
	}
}

func TestAPIStore(t *testing.T) {
	srv, _, _ := newTestServer(t, testConfig(), true)

	rec := do(t, srv, http.MethodGet, "/api/stores/0", nil)
	var resp storeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Detail.Name != "Alpha Store" || resp.Detail.Status.Class != "open" {
		t.Errorf("detail = %+v", resp.Detail)
	}

	rec = do(t, srv, http.MethodGet, "/api/stores/42", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != "DIR002" {
		t.Errorf("code = %q, want DIR002", errResp.Code)
	}
}

func TestAPIStats(t *testing.T) {
	srv, _, _ := newTestServer(t, testConfig(), true)

	rec := do(t, srv, http.MethodGet, "/api/stats", nil)
	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := core.Stats{Total: 3, Open: 1, Upcoming: 1, Countries: 2}
	if resp.Stats != want {
		t.Errorf("stats = %+v, want %+v", resp.Stats, want)
	}
	if resp.Load.Stores != 3 || len(resp.Load.Skipped) != 1 || resp.Load.Skipped[0].Line != 5 {
		t.Errorf("load = %+v", resp.Load)
	}
	if resp.Load.Source != "stub://stores.csv" {
		t.Errorf("source = %q", resp.Load.Source)
	}
}

func TestAPI_NotLoaded(t *testing.T) {
	srv, _, _ := newTestServer(t, testConfig(), false)

	for _, target := range []string{"/api/stores", "/api/stats", "/api/export", "/api/stores/0"} {
		rec := do(t, srv, http.MethodGet, target, nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503", target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"code":"DIR001"`) {
			t.Errorf("%s: body = %s", target, rec.Body.String())
		}
	}
}

func TestExport(t *testing.T) {
	srv, _, _ := newTestServer(t, testConfig(), true)

	rec := do(t, srv, http.MethodGet, "/api/export?city=springfield", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, `attachment; filename="stores_`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "Store Name,Store Number,") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], `"Gamma, The Store",R003,`) {
		t.Errorf("quoted row = %q", lines[2])
	}

	// Exported text parses back to the same records.
	back := core.Parse(rec.Body.String())
	if len(back) != 2 || back[1].Get("Store Name") != "Gamma, The Store" {
		t.Errorf("round trip = %v", back)
	}
}

func TestReload(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret"}
	srv, svc, fetcher := newTestServer(t, cfg, true)
	key := map[string]string{"X-API-Key": "secret"}

	if rec := do(t, srv, http.MethodPost, "/api/reload", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", rec.Code)
	}

	fetcher.set("Store Name,Store Number\nDelta,R004\n", nil)
	rec := do(t, srv, http.MethodPost, "/api/reload", key)
	if rec.Code != http.StatusOK {
		t.Fatalf("reload status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp loadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Stores != 1 || len(resp.Skipped) != 0 {
		t.Errorf("reload = %+v", resp)
	}

	fetcher.set("", errors.New("dial tcp: connection refused"))
	rec = do(t, srv, http.MethodPost, "/api/reload", key)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("failed reload status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "LOAD002") {
		t.Errorf("body = %s, want LOAD002", rec.Body.String())
	}

	ds, err := svc.Current()
	if err != nil || ds.Len() != 1 || ds.Records[0].Get("Store Name") != "Delta" {
		t.Errorf("failed reload should keep the previous dataset, got %v, %v", ds, err)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.RequestsPerMinute = 2
	srv, _, _ := newTestServer(t, cfg, true)

	for i := 0; i < 2; i++ {
		if rec := do(t, srv, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := do(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
	if !strings.Contains(rec.Body.String(), "RATE001") {
		t.Errorf("body = %s, want RATE001", rec.Body.String())
	}
}

func TestRateLimiter_Window(t *testing.T) {
	rl := newRateLimiter(1, 20*time.Millisecond)
	defer rl.stop()

	if !rl.allow("a") {
		t.Fatal("first request should pass")
	}
	if rl.allow("a") {
		t.Fatal("second request in window should be limited")
	}
	if !rl.allow("b") {
		t.Fatal("other clients have their own budget")
	}
	time.Sleep(30 * time.Millisecond)
	if !rl.allow("a") {
		t.Fatal("budget should reset after the window")
	}
}

func TestHealth(t *testing.T) {
	srv, svc, fetcher := newTestServer(t, testConfig(), false)
	fetcher.set("", errors.New("open stores.csv: no such file or directory"))
	_, _ = svc.Load(context.Background())

	var resp healthResponse
	rec := do(t, srv, http.MethodGet, "/healthz", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Loaded || resp.LastError != "FILE001" {
		t.Errorf("health = %+v", resp)
	}

	fetcher.set(storesCSV, nil)
	_, _ = svc.Load(context.Background())
	rec = do(t, srv, http.MethodGet, "/healthz", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Loaded || resp.Stores != 3 {
		t.Errorf("health = %+v", resp)
	}
}

func TestStaticAssets(t *testing.T) {
	srv, _, _ := newTestServer(t, testConfig(), false)

	for _, path := range []string{"/static/app.css", "/static/app.js"} {
		if rec := do(t, srv, http.MethodGet, path, nil); rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d", path, rec.Code)
		}
	}
}
