package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"pv-configurator/internal/gateway/proxy"
	"pv-configurator/internal/gateway/pvgis"

	"github.com/gofiber/fiber/v3"
	"gopkg.in/yaml.v3"
)

func newPVGISApp(t *testing.T, upstream http.HandlerFunc) *fiber.App {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	h := NewPVGISHandler(pvgis.NewClient(srv.URL, time.Second, nil), proxy.New(time.Second, nil), nil)
	app := fiber.New()
	app.Post("/api/v1/pvcalc", h.Calc)
	app.Get("/api/v1/pvgis/:endpoint", h.Passthrough)
	return app
}

func readEnvelope(t *testing.T, resp *http.Response) pvgis.Envelope {
	t.Helper()
	defer resp.Body.Close()

	var env pvgis.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestCalcSuccess(t *testing.T) {
	var query string
	app := newPVGISApp(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`{"outputs":{"totals":{"fixed":{"E_y":4200.5}}}}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pvcalc", strings.NewReader(`{"lat":52.52,"lon":13.4,"peakpower":8,"loss":14,"pvtechchoice":"CIS","mountingplace":"free","angle":30,"aspect":-10,"raddatabase":"PVGIS-SARAH3","pvprice":false}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	env := readEnvelope(t, resp)
	if env.Status != "success" || !strings.Contains(string(env.Data), "4200.5") {
		t.Errorf("unexpected envelope %+v", env)
	}
	if !strings.Contains(query, "lat=52.52") || !strings.Contains(query, "pvtechchoice=CIS") {
		t.Errorf("unexpected upstream query %s", query)
	}
	if strings.Contains(query, "systemcost") {
		t.Errorf("economics sent without pvprice: %s", query)
	}
}

func TestCalcUpstreamError(t *testing.T) {
	app := newPVGISApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Location over the sea","status":400}`))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/pvcalc", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	if env := readEnvelope(t, resp); env.Status != "error" || env.Message != "Location over the sea" {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestCalcInvalidParams(t *testing.T) {
	app := newPVGISApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream should not be called")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/pvcalc", strings.NewReader(`{"lat":123}`)))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if env := readEnvelope(t, resp); env.Status != "error" {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestPassthroughKeepsQuery(t *testing.T) {
	var path, query string
	app := newPVGISApp(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.RawQuery
		w.Write([]byte(`{}`))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/pvgis/tmy?lat=45&lon=8&outputformat=json", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || path != "/tmy" || query != "lat=45&lon=8&outputformat=json" {
		t.Errorf("status %d, upstream saw %s?%s", resp.StatusCode, path, query)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/pvgis/admin", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown endpoint status = %d, want 404", resp.StatusCode)
	}
}

func TestReadinessFollowsConfigurator(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health/ready" || !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"ready"}`))
	}))
	defer upstream.Close()

	app := fiber.New()
	app.Get("/health/ready", NewHealthHandler(upstream.URL, nil).ReadinessProbe)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	healthy.Store(false)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestSwaggerSpecIsValidYAML(t *testing.T) {
	app := fiber.New()
	app.Get("/docs/openapi.yaml", SwaggerSpec)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	var doc struct {
		OpenAPI string         `yaml:"openapi"`
		Paths   map[string]any `yaml:"paths"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("openapi.yaml is not valid yaml: %v", err)
	}
	for _, path := range []string{"/projects", "/projects/{id}/tiles", "/pvcalc", "/pvgis/{endpoint}"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("path %s missing from openapi doc", path)
		}
	}
}
