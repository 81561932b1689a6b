package server

import (
	"bufio"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellblend/pkg/color"
	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/errors"
	"github.com/matzehuels/cellblend/pkg/interact"
	"github.com/matzehuels/cellblend/pkg/observability"
	"github.com/matzehuels/cellblend/pkg/points"
)

func newTestServer(t *testing.T) (*Server, *diagram.Store) {
	t.Helper()
	logger := log.New(io.Discard)
	gen := points.NewGenerator(points.Bounds{Width: 200, Height: 100}, color.DefaultPalette, 7)
	store := diagram.NewStore(gen, 6, logger)
	return New(Config{
		Store:      store,
		Controller: interact.New(store, nil, 0, logger),
		Logger:     logger,
		Points:     6,
	}), store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestGetState(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var st diagram.State
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Len() != 6 || st.Bounds.Width != 200 {
		t.Errorf("state = %d cells, bounds %+v", st.Len(), st.Bounds)
	}
}

func TestArtifacts(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		path, mime, prefix string
	}{
		{"/diagram.svg", "image/svg+xml", "<svg"},
		{"/diagram.svg?sites=1&resolution=20&interactive=1", "image/svg+xml", "<svg"},
		{"/diagram.dot?detailed=1", "text/vnd.graphviz", "graph G {"},
		{"/adjacency.svg", "image/svg+xml", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, tt.path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.mime {
				t.Errorf("Content-Type = %s, want %s", got, tt.mime)
			}
			if !strings.HasPrefix(rec.Body.String(), tt.prefix) {
				t.Errorf("body starts %.40q", rec.Body.String())
			}
			if rec.Header().Get("ETag") == "" {
				t.Error("missing ETag")
			}
		})
	}
}

func TestPNGArtifact(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/diagram.png?scale=0.5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}
}

func TestArtifactBadQuery(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/diagram.svg?resolution=abc", "/diagram.png?scale=x", "/diagram.png?scale=-1"} {
		rec := do(t, srv, http.MethodGet, path, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
		if body := decodeError(t, rec); body.Code != errors.ErrCodeInvalidInput {
			t.Errorf("%s: code = %s", path, body.Code)
		}
	}
}

func TestClickIndex(t *testing.T) {
	srv, store := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/cells/0/click", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp clickResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	st := store.Snapshot()
	if resp.Clicked != 0 || resp.Version != st.Version || resp.Cells != st.Len() {
		t.Errorf("response = %+v, store version %d cells %d", resp, st.Version, st.Len())
	}
}

func TestClickErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name, path, body string
		status           int
		code             errors.Code
	}{
		{"out of range", "/cells/99/click", "", http.StatusBadRequest, errors.ErrCodeInvalidIndex},
		{"not a number", "/cells/abc/click", "", http.StatusBadRequest, errors.ErrCodeInvalidIndex},
		{"bad body", "/click", "{", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"outside plane", "/click", `{"x": 500, "y": 10}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if body := decodeError(t, rec); body.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Code, tt.code)
			}
		})
	}
}

func TestClickPoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/click", `{"x": 100, "y": 50}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
}

func TestRegenerateAndReset(t *testing.T) {
	srv, store := newTestServer(t)
	gen := store.Snapshot().Generation

	rec := do(t, srv, http.MethodPost, "/regenerate?points=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("regenerate status = %d", rec.Code)
	}
	var sum stateSummary
	if err := json.NewDecoder(rec.Body).Decode(&sum); err != nil {
		t.Fatal(err)
	}
	if sum.Cells != 3 || sum.Generation == gen {
		t.Errorf("regenerate = %+v", sum)
	}

	rec = do(t, srv, http.MethodPost, "/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if st := store.Snapshot(); st.Len() != 3 || st.Version <= sum.Version {
		t.Errorf("after reset: %d cells, version %d", st.Len(), st.Version)
	}

	rec = do(t, srv, http.MethodPost, "/regenerate?points=-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative points: status = %d", rec.Code)
	}
}

func TestNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != errors.ErrCodeNotFound {
		t.Errorf("code = %s", body.Code)
	}
}

func TestPage(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<svg", "6 cells", `"/cells/{index}/click"`, "EventSource"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestEvents(t *testing.T) {
	srv, store := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	next := func() stateSummary {
		t.Helper()
		for lines.Scan() {
			if data, ok := strings.CutPrefix(lines.Text(), "data: "); ok {
				var sum stateSummary
				if err := json.Unmarshal([]byte(data), &sum); err != nil {
					t.Fatal(err)
				}
				return sum
			}
		}
		t.Fatalf("stream ended: %v", lines.Err())
		return stateSummary{}
	}

	if first := next(); first.Version != 0 || first.Cells != 6 {
		t.Errorf("first event = %+v", first)
	}
	store.ResetColors()
	if second := next(); second.Version != 1 {
		t.Errorf("second event = %+v", second)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	srv, _ := newTestServer(t)
	do(t, srv, http.MethodGet, "/state", "")
	do(t, srv, http.MethodGet, "/missing", "")

	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 404 {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}
