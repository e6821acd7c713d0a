package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"dreamworld/internal/domain"
	"dreamworld/internal/generation"
	"dreamworld/internal/http/handlers"
	"dreamworld/internal/photomaker"
	"dreamworld/internal/preset"
	"dreamworld/internal/storage"
)

type nopPipeline struct{}

func (nopPipeline) Synthesize(context.Context, photomaker.Synthesis) ([]domain.GeneratedImage, error) {
	return nil, nil
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	root := t.TempDir()
	presets := preset.NewStore(filepath.Join(root, "themes.json"), preset.WithCacheTTL(0))
	if err := presets.EnsureCatalogExists(); err != nil {
		t.Fatal(err)
	}
	uploads, err := storage.NewFileStore(filepath.Join(root, "uploads"))
	if err != nil {
		t.Fatal(err)
	}
	outputs, err := storage.NewFileStore(filepath.Join(root, "outputs"))
	if err != nil {
		t.Fatal(err)
	}
	svc, err := generation.NewService(generation.Options{
		Presets:   presets,
		Stager:    storage.NewStager(uploads, nil),
		Collector: storage.NewCollector(outputs),
		Builder:   photomaker.NewBuilder(photomaker.Options{}),
		Pipeline:  nopPipeline{},
		Logger:    zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	app := handlers.NewApp(svc, outputs, zerolog.Nop(), 0)
	return NewRouter(app, Options{
		Logger:          zerolog.Nop(),
		AllowedOrigins:  []string{"https://dream.example"},
		RateLimitPerMin: 1,
		DefaultLocale:   "en",
	})
}

func TestRouterMiddlewareChain(t *testing.T) {
	h := newRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	req.Header.Set("Origin", "https://dream.example")
	req.Header.Set("Accept-Language", "id-ID,id;q=0.9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dream.example" {
		t.Fatalf("allow origin = %q", got)
	}
	if got := rec.Header().Get("Content-Language"); got != "id" {
		t.Fatalf("content language = %q", got)
	}
}

func TestRouterRoutes(t *testing.T) {
	h := newRouter(t)
	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/v1/themes", http.StatusOK},
		{http.MethodGet, "/v1/themes/Cloud%20City", http.StatusOK},
		{http.MethodGet, "/v1/themes/Cloud%20City/seasons", http.StatusOK},
		{http.MethodGet, "/v1/aspect-ratios", http.StatusOK},
		{http.MethodGet, "/v1/generations", http.StatusOK},
		{http.MethodGet, "/v1/outputs.zip", http.StatusNotFound},
		{http.MethodDelete, "/v1/themes", http.StatusMethodNotAllowed},
		{http.MethodGet, "/v1/unknown", http.StatusNotFound},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Errorf("%s %s = %d, want %d", tc.method, tc.path, rec.Code, tc.want)
		}
	}
}

func TestRouterRateLimitsGenerations(t *testing.T) {
	h := newRouter(t)
	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/generations", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] == http.StatusTooManyRequests || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}
