package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"solarwatch/internal/efficiency"
	"solarwatch/internal/engine"
	"solarwatch/internal/impact"
	"solarwatch/internal/monitor"
	"solarwatch/internal/storage"
)

func newTestServer() *Server {
	m := monitor.New(monitor.Config{
		Store: storage.NewMemoryStore(),
		Engine: engine.New(engine.Config{
			Tracker: efficiency.NewTracker(efficiency.TrackerConfig{}),
		}),
		Impact: impact.NewAccumulator(0, 0),
	})
	return NewServer(ServerConfig{Port: 0, Monitor: m})
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("body = %s, want healthy status", w.Body.String())
	}
}

func TestIngestAndQuery(t *testing.T) {
	s := newTestServer()

	body := `{"power_produced_w":300,"irradiance_wm2":1000,"temperature_c":85}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/readings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("ingest status = %d, want 201: %s", w.Code, w.Body.String())
	}

	// The hot reading fired an alert.
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("alerts status = %d", w.Code)
	}
	var alerts []engine.Alert
	if err := json.Unmarshal(w.Body.Bytes(), &alerts); err != nil {
		t.Fatalf("decode alerts: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Type != engine.AlertHighTemperature {
		t.Errorf("alerts = %+v, want one high_temperature alert", alerts)
	}

	// Impact reflects the ingested energy.
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/impact", nil))
	if !strings.Contains(w.Body.String(), "0.3") {
		t.Errorf("impact body = %s, want 0.3 kWh total", w.Body.String())
	}

	// The reading is queryable over the default window.
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/readings", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readings status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "300") {
		t.Errorf("readings body = %s, want the stored reading", w.Body.String())
	}
}

func TestIngestRejectsMalformedBody(t *testing.T) {
	s := newTestServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/readings", strings.NewReader(`{"power_produced_w":"lots"}`))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestReadingsRejectsBadDates(t *testing.T) {
	s := newTestServer()

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/readings?from=yesterday", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAverageEfficiencyUndefined(t *testing.T) {
	s := newTestServer()

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/efficiency/average", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var payload struct {
		Defined bool `json:"defined"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Defined {
		t.Error("average efficiency should be undefined with no samples")
	}
}
