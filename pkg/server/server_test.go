package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/pipeline"
	"github.com/matzehuels/parttree/pkg/source/inventree"
	"github.com/matzehuels/parttree/pkg/tree"
)

type fakeHost struct {
	last inventree.FetchOptions
}

func (f *fakeHost) FetchTree(_ context.Context, partID int, opts inventree.FetchOptions) (*tree.Node, error) {
	f.last = opts
	switch partID {
	case 1:
		return &tree.Node{ID: "1", Name: "A", Assembly: true, Children: []tree.Edge{
			{Quantity: tree.Qty(2), Child: &tree.Node{ID: "2", Name: "B"}},
		}}, nil
	case 3:
		return nil, errors.New(errors.ErrCodeUnauthorized, "token rejected")
	}
	return nil, errors.New(errors.ErrCodePartNotFound, "part %d not found", partID)
}

type fakePages struct{}

func (fakePages) PageURL(id int) string {
	return fmt.Sprintf("https://inv.example.com/plugin/product_tree/tree/%d/", id)
}

const diagramA = "graph TD\nP1[\"A\"]\nP1 -->|2| P2\nP2[\"B\"]"

func newTestServer(t *testing.T, svg pipeline.SVGRenderer) (*httptest.Server, *fakeHost) {
	t.Helper()
	host := &fakeHost{}
	runner := pipeline.NewRunner(nil, nil, nil)
	runner.Host = host
	runner.SVG = svg
	srv := New(Config{MaxDepth: tree.DefaultMaxDepth}, runner, fakePages{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, host
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, body)
	}
}

func TestDiagram(t *testing.T) {
	ts, host := newTestServer(t, nil)

	resp, body := get(t, ts.URL+"/api/diagram/1?max_depth=3&substitutes=yes")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if body != diagramA {
		t.Errorf("body =\n%s\nwant\n%s", body, diagramA)
	}
	if host.last.MaxDepth != 3 || !host.last.IncludeSubstitutes {
		t.Errorf("fetch options = %+v", host.last)
	}
}

func TestDiagramQueryDefaults(t *testing.T) {
	ts, host := newTestServer(t, nil)

	get(t, ts.URL+"/api/diagram/1")
	if host.last.MaxDepth != tree.DefaultMaxDepth || host.last.IncludeSubstitutes {
		t.Errorf("defaults = %+v", host.last)
	}

	get(t, ts.URL+"/api/diagram/1?max_depth=junk")
	if host.last.MaxDepth != tree.DefaultMaxDepth {
		t.Errorf("invalid depth should fall back to default, got %d", host.last.MaxDepth)
	}

	get(t, ts.URL+"/api/diagram/1?max_depth=400")
	if host.last.MaxDepth != tree.MaxDepthLimit {
		t.Errorf("depth should clamp to %d, got %d", tree.MaxDepthLimit, host.last.MaxDepth)
	}

	_, body := get(t, ts.URL+"/api/diagram/1?direction=LR")
	if !strings.HasPrefix(body, "graph LR\n") {
		t.Errorf("direction ignored: %q", body)
	}
}

func TestErrors(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	tests := []struct {
		path   string
		status int
		code   errors.Code
	}{
		{"/api/diagram/42", http.StatusNotFound, errors.ErrCodePartNotFound},
		{"/api/diagram/abc", http.StatusBadRequest, errors.ErrCodeInvalidPartID},
		{"/api/diagram/-1", http.StatusBadRequest, errors.ErrCodeInvalidPartID},
		{"/api/tree/3", http.StatusUnauthorized, errors.ErrCodeUnauthorized},
		{"/api/diagram/1?direction=up", http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e errorResponse
			if err := json.Unmarshal([]byte(body), &e); err != nil {
				t.Fatalf("error body %q: %v", body, err)
			}
			if e.Code != tt.code || e.Error == "" {
				t.Errorf("error = %+v, want code %s", e, tt.code)
			}
		})
	}
}

func TestTree(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, body := get(t, ts.URL+"/api/tree/1")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("tree = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	var root tree.Node
	if err := json.Unmarshal([]byte(body), &root); err != nil {
		t.Fatal(err)
	}
	if root.ID != "1" || len(root.Children) != 1 || root.Children[0].Child.Name != "B" {
		t.Errorf("tree = %+v", root)
	}
}

func TestSVG(t *testing.T) {
	ts, _ := newTestServer(t, func(context.Context, string) ([]byte, error) {
		return []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), nil
	})

	resp, body := get(t, ts.URL+"/api/svg/1")
	if resp.Header.Get("Content-Type") != "image/svg+xml" || !strings.HasPrefix(body, "<svg") {
		t.Errorf("svg = %s %q", resp.Header.Get("Content-Type"), body)
	}
	if resp.Header.Get(fallbackHeader) != "" {
		t.Error("successful render should not set the fallback header")
	}
}

func TestSVGFallback(t *testing.T) {
	ts, _ := newTestServer(t, func(context.Context, string) ([]byte, error) {
		return nil, errors.New(errors.ErrCodeRenderFailed, "no graphviz")
	})

	resp, body := get(t, ts.URL+"/api/svg/1")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(fallbackHeader) != "1" {
		t.Error("fallback header missing")
	}
	if body != diagramA {
		t.Errorf("fallback body = %q", body)
	}
}

func TestMetrics(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	_, body := get(t, ts.URL+"/api/metrics/1")
	var m metricsResponse
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatal(err)
	}
	if m.Part != "1" || m.Name != "A" || m.Metrics.Nodes != 1 || m.Metrics.Depth != 1 || m.Hash == "" {
		t.Errorf("metrics = %+v", m)
	}
	if m.Issues == nil {
		t.Error("issues should encode as an empty list")
	}
}

func TestPanel(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, body := get(t, ts.URL+"/panel/1")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("panel = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	for _, want := range []string{"Product tree: A", `src="https://inv.example.com/plugin/product_tree/tree/1/"`, "graph TD"} {
		if !strings.Contains(body, want) {
			t.Errorf("panel missing %q", want)
		}
	}

	resp, body = get(t, ts.URL+"/panel/42")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing part status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "part 42 not found") {
		t.Error("error slot should carry the message")
	}
}

func TestDiagramBody(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	payload := `{"id":"A","name":"A","children":[{"id":"B","name":"B","cycle":true,"children":[]}]}`
	resp, err := http.Post(ts.URL+"/api/diagram", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	want := "graph TD\nPA[\"A\"]\nPA -.-> PB\nPB[\"B\\n↻ cycle\"]"
	if string(body) != want {
		t.Errorf("body =\n%s\nwant\n%s", body, want)
	}

	resp, err = http.Post(ts.URL+"/api/diagram", "application/json", strings.NewReader(`[1,2]`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("non-object body status = %d", resp.StatusCode)
	}
}

func TestCORS(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/diagram/1", nil)
	req.Header.Set("Origin", "https://inv.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Error("preflight should allow the origin")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidDepth, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeForbidden, "x"), http.StatusForbidden},
		{errors.New(errors.ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{errors.New(errors.ErrCodeNetwork, "x"), http.StatusBadGateway},
		{context.Canceled, http.StatusGatewayTimeout},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
