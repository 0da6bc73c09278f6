package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sarawak-explorer/itinerary/internal/catalog"
	"github.com/sarawak-explorer/itinerary/internal/clock"
	"github.com/sarawak-explorer/itinerary/internal/identity"
	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/kv"
	"github.com/sarawak-explorer/itinerary/internal/log"
	"github.com/sarawak-explorer/itinerary/internal/service"
	"github.com/sarawak-explorer/itinerary/internal/store"
)

func init() {
	log.SetOutput(io.Discard)
}

var testNow = time.Date(2025, 1, 5, 20, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	clk := clock.NewFakeClock(testNow)
	st := store.New(kv.NewSlot(kv.NewMemory(), "itinerary"), clk)
	svc := service.New(st, itinerary.NewTimestampIDs(clk), catalog.Default(), clk)
	return New(svc, opts)
}

func do(t *testing.T, s *Server, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.RemoteAddr = "192.0.2.1:1234"
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(t, s, "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestEntryLifecycle(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(t, s, "POST", "/v1/entries",
		`{"description":"Visit Bako National Park","date":"Mon Jan 06 2025","time":"2:30 PM"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body)
	}
	created := decode[itinerary.Record](t, rec)
	if created.ID == "" || rec.Header().Get("Location") != "/v1/entries/"+created.ID {
		t.Errorf("created = %+v, Location = %q", created, rec.Header().Get("Location"))
	}

	rec = do(t, s, "GET", "/v1/entries", "")
	list := decode[[]itinerary.Record](t, rec)
	if len(list) != 1 || list[0].Description != "Visit Bako National Park" || list[0].Time != "2:30 PM" {
		t.Fatalf("list = %+v", list)
	}

	rec = do(t, s, "PATCH", "/v1/entries/"+created.ID+"/schedule", `{"date":"Tue Jan 07 2025","time":"9:00 AM"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body = %s", rec.Code, rec.Body)
	}
	updated := decode[itinerary.Record](t, rec)
	if updated.Date != "Tue Jan 07 2025" || updated.Time != "9:00 AM" || updated.Description != "Visit Bako National Park" {
		t.Errorf("updated = %+v", updated)
	}

	rec = do(t, s, "GET", "/v1/entries/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}

	rec = do(t, s, "DELETE", "/v1/entries/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = do(t, s, "GET", "/v1/entries", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("list after delete = %s, want []", rec.Body)
	}

	rec = do(t, s, "DELETE", "/v1/entries/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestCreateEntry_FromCatalog(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(t, s, "POST", "/v1/entries",
		`{"region":"kuching","attractionId":"4","date":"2025-01-08","time":"10:00 am"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	got := decode[itinerary.Record](t, rec)
	if got.Name != "Semenggoh Wildlife Centre" || got.Region != "Kuching" || got.Date != "Wed Jan 08 2025" {
		t.Errorf("entry = %+v", got)
	}
}

func TestErrorStatuses(t *testing.T) {
	s := newTestServer(t, Options{})
	const bodyMessage = "Request body is not a valid JSON object for this route"

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
		msg    string
	}{
		{"empty description", "POST", "/v1/entries", `{"description":" ","date":"Mon Jan 06 2025","time":"9:00 AM"}`, 400, "Trip description is required"},
		{"missing time", "POST", "/v1/entries", `{"description":"x","date":"Mon Jan 06 2025"}`, 400, ""},
		{"bad time", "POST", "/v1/entries", `{"description":"x","date":"Mon Jan 06 2025","time":"13:00 PM"}`, 400, ""},
		{"bad json", "POST", "/v1/entries", `{"description":`, 400, bodyMessage},
		{"unknown field", "POST", "/v1/entries", `{"title":"x"}`, 400, bodyMessage},
		{"bad schedule body", "PATCH", "/v1/entries/nope/schedule", `["9:00 AM"]`, 400, bodyMessage},
		{"unreadable time", "POST", "/v1/entries", `{"description":"x","date":"Mon Jan 06 2025","time":"2:30PM"}`, 400, "Date or time is not readable"},
		{"unknown attraction", "POST", "/v1/entries", `{"region":"Miri","attractionId":"1","date":"Mon Jan 06 2025","time":"9:00 AM"}`, 404, ""},
		{"catalog without schedule", "POST", "/v1/entries", `{"region":"Miri","attractionId":"6"}`, 400, ""},
		{"get missing", "GET", "/v1/entries/nope", "", 404, ""},
		{"patch missing", "PATCH", "/v1/entries/nope/schedule", `{"date":"Mon Jan 06 2025","time":"9:00 AM"}`, 404, ""},
		{"patch without date", "PATCH", "/v1/entries/nope/schedule", `{"time":"9:00 AM"}`, 400, ""},
		{"unknown region", "GET", "/v1/catalog/regions/Atlantis", "", 404, ""},
		{"unknown route", "GET", "/v2/everything", "", 404, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.want, rec.Body)
			}
			body := decode[map[string]string](t, rec)
			if body["error"] == "" {
				t.Error("error message missing")
			}
			if tt.msg != "" && body["error"] != tt.msg {
				t.Errorf("error = %q, want %q", body["error"], tt.msg)
			}
		})
	}
}

func TestListEntries_ScheduleOrder(t *testing.T) {
	s := newTestServer(t, Options{})
	do(t, s, "POST", "/v1/entries", `{"description":"later","date":"Tue Jan 07 2025","time":"9:00 AM"}`)
	do(t, s, "POST", "/v1/entries", `{"description":"sooner","date":"Mon Jan 06 2025","time":"9:00 AM"}`)

	inserted := decode[[]itinerary.Record](t, do(t, s, "GET", "/v1/entries", ""))
	if inserted[0].Description != "later" {
		t.Errorf("default order = %+v, want insertion order", inserted)
	}
	byDate := decode[[]itinerary.Record](t, do(t, s, "GET", "/v1/entries?order=schedule", ""))
	if byDate[0].Description != "sooner" {
		t.Errorf("schedule order = %+v", byDate)
	}
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t, Options{})

	regions := decode[[]regionSummary](t, do(t, s, "GET", "/v1/catalog/regions", ""))
	if len(regions) != 13 || regions[0].Name != "Kuching" || regions[0].Attractions != 5 {
		t.Errorf("regions = %+v", regions)
	}

	region := decode[catalog.Region](t, do(t, s, "GET", "/v1/catalog/regions/Kapuas_Hulu", ""))
	if region.Name != "Kapuas Hulu" || len(region.Attractions) != 1 {
		t.Errorf("region = %+v", region)
	}
}

func TestExportICS(t *testing.T) {
	s := newTestServer(t, Options{})
	do(t, s, "POST", "/v1/entries", `{"description":"Bako","date":"Mon Jan 06 2025","time":"9:00 AM"}`)

	rec := do(t, s, "GET", "/v1/export/ics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar") {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "SUMMARY:Bako") {
		t.Errorf("calendar missing event: %s", rec.Body)
	}
}

func TestJWTAuthentication(t *testing.T) {
	verifier, err := identity.NewJWT("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, Options{Identity: verifier})
	token, err := verifier.Issue(identity.Profile{UserID: "u1", Username: "aisyah"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			if tt.header == "" {
				rec = do(t, s, "GET", "/v1/entries", "")
			} else {
				rec = do(t, s, "GET", "/v1/entries", "", "Authorization", tt.header)
			}
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	// Catalog browsing stays public.
	if rec := do(t, s, "GET", "/v1/catalog/regions", ""); rec.Code != http.StatusOK {
		t.Errorf("catalog status = %d, want 200", rec.Code)
	}
}

// signedOut is a provider that never authenticates anyone.
type signedOut struct{}

func (signedOut) Authenticated(context.Context) bool { return false }

func (signedOut) Profile(context.Context) (identity.Profile, bool) { return identity.Profile{}, false }

func TestAuthenticate_ProviderDecides(t *testing.T) {
	s := newTestServer(t, Options{Identity: signedOut{}})

	if rec := do(t, s, "GET", "/v1/entries", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("entries status = %d, want 401", rec.Code)
	}
	if rec := do(t, s, "GET", "/v1/export/ics", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("export status = %d, want 401", rec.Code)
	}
	if rec := do(t, s, "GET", "/v1/catalog/regions", ""); rec.Code != http.StatusOK {
		t.Errorf("catalog status = %d, want 200", rec.Code)
	}
}

func TestRequestLog_RecordsUser(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(io.Discard)

	tests := []struct {
		name   string
		opts   Options
		header []string
		want   string
	}{
		{"local profile", Options{Identity: identity.NewLocal("ana")}, nil, "user=ana"},
		{"token profile", Options{Identity: mustJWT(t)}, []string{"Authorization", "Bearer " + mustToken(t, "u7")}, "user=u7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			s := newTestServer(t, tt.opts)
			if rec := do(t, s, "GET", "/v1/entries", "", tt.header...); rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("request log %q does not contain %q", buf.String(), tt.want)
			}
		})
	}
}

const testSecret = "log-secret"

func mustJWT(t *testing.T) *identity.JWT {
	t.Helper()
	j, err := identity.NewJWT(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	return j
}

func mustToken(t *testing.T, user string) string {
	t.Helper()
	token, err := mustJWT(t).Issue(identity.Profile{UserID: user, Username: user}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Options{RatePerSecond: 0.001, Burst: 2})

	for i := 0; i < 2; i++ {
		if rec := do(t, s, "GET", "/v1/entries", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	if rec := do(t, s, "GET", "/v1/entries", ""); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}

func TestRateLimiter_PerClientAndSweep(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	now := testNow
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || rl.Allow("a") {
		t.Fatal("client a should get exactly one request")
	}
	if !rl.Allow("b") {
		t.Error("client b limited by client a")
	}

	now = now.Add(idleVisitor + time.Minute)
	rl.Allow("c")
	if _, ok := rl.visitors["a"]; ok {
		t.Error("idle client not swept")
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, Options{AllowedOrigins: []string{"http://localhost:19006"}})

	rec := do(t, s, "OPTIONS", "/v1/entries", "",
		"Origin", "http://localhost:19006",
		"Access-Control-Request-Method", "POST")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:19006" {
		t.Errorf("Allow-Origin = %q", got)
	}

	rec = do(t, s, "GET", "/health", "", "Origin", "http://evil.example")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin for unknown origin = %q, want empty", got)
	}
}
