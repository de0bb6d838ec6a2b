package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
)

func TestPrefixForwardsPathQueryAndBody(t *testing.T) {
	var gotPath, gotQuery, gotBody, gotMethod string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	p := New(time.Second, nil)
	app := fiber.New()
	app.All("/api/v1/projects", p.Prefix(upstream.URL, "/projects"))
	app.All("/api/v1/projects/*", p.Prefix(upstream.URL, "/projects"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/abc/tiles?debug=1", strings.NewReader(`{"point":[1,2,3]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
	if gotMethod != http.MethodPost || gotPath != "/projects/abc/tiles" || gotQuery != "debug=1" {
		t.Errorf("upstream saw %s %s?%s", gotMethod, gotPath, gotQuery)
	}
	if gotBody != `{"point":[1,2,3]}` {
		t.Errorf("upstream body = %q", gotBody)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	resp.Body.Close()
	if gotPath != "/projects" {
		t.Errorf("collection path = %q, want /projects", gotPath)
	}
}

func TestForwardUnreachableUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	fwd := New(time.Second, nil)
	app := fiber.New()
	app.Get("/x", func(c fiber.Ctx) error { return fwd.Forward(c, url+"/x") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}
