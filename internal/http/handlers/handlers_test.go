package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	kzip "github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"

	"dreamworld/internal/adapter/repo"
	"dreamworld/internal/domain"
	"dreamworld/internal/generation"
	"dreamworld/internal/photomaker"
	"dreamworld/internal/preset"
	"dreamworld/internal/storage"
)

type faceDetector struct{}

func (faceDetector) Detect(context.Context, photomaker.Frame) ([]photomaker.Face, error) {
	return []photomaker.Face{{Embedding: []float32{1}}}, nil
}

type stubPipeline struct {
	last photomaker.Synthesis
}

func (p *stubPipeline) Synthesize(_ context.Context, req photomaker.Synthesis) ([]domain.GeneratedImage, error) {
	p.last = req
	out := make([]domain.GeneratedImage, req.NumImages)
	for i := range out {
		out[i] = domain.GeneratedImage{Data: []byte{0x89, 'P', 'N', 'G', byte(i)}, MIMEType: "image/png"}
	}
	return out, nil
}

type testServer struct {
	handler  http.Handler
	pipeline *stubPipeline
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	root := t.TempDir()
	presets := preset.NewStore(filepath.Join(root, "dream_world_themes.json"), preset.WithCacheTTL(0))
	if err := presets.EnsureCatalogExists(); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	uploads, err := storage.NewFileStore(filepath.Join(root, "uploads"))
	if err != nil {
		t.Fatalf("uploads: %v", err)
	}
	outputs, err := storage.NewFileStore(filepath.Join(root, "outputs"))
	if err != nil {
		t.Fatalf("outputs: %v", err)
	}
	pipeline := &stubPipeline{}
	svc, err := generation.NewService(generation.Options{
		Presets:   presets,
		Stager:    storage.NewStager(uploads, nil),
		Collector: storage.NewCollector(outputs),
		Builder:   photomaker.NewBuilder(photomaker.Options{Detector: faceDetector{}}),
		Pipeline:  pipeline,
		Runs:      repo.NewMemoryRunRepository(0),
		Logger:    zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	app := NewApp(svc, outputs, zerolog.Nop(), 1<<20)

	r := chi.NewRouter()
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/themes", app.ListThemes)
	r.Get("/v1/themes/{name}", app.GetTheme)
	r.Get("/v1/themes/{name}/seasons", app.ThemeSeasons)
	r.Get("/v1/aspect-ratios", app.ListAspectRatios)
	r.Post("/v1/prompts/resolve", app.ResolvePrompt)
	r.Post("/v1/generations", app.CreateGeneration)
	r.Get("/v1/generations", app.ListGenerations)
	r.Get("/v1/outputs.zip", app.OutputsZip)
	r.Get("/v1/outputs/{file}", app.OutputFile)
	return &testServer{handler: r, pipeline: pipeline}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestThemeEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/themes", nil))
	var list struct {
		Items []themeSummary `json:"items"`
	}
	decode(t, rec, &list)
	if len(list.Items) == 0 || list.Items[0].Name != "Magical Forest" {
		t.Fatalf("themes = %+v", list.Items)
	}

	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/themes/"+url.PathEscape("(No style)"), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get escaped theme = %d %s", rec.Code, rec.Body.String())
	}
	var theme domain.Theme
	decode(t, rec, &theme)
	if theme.Name != "(No style)" || theme.Prompt != "{prompt}" {
		t.Fatalf("theme = %+v", theme)
	}

	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/themes/Haunted%20House", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing theme status = %d", rec.Code)
	}
	var body errorBody
	decode(t, rec, &body)
	if body.Error.Code != "not_found" {
		t.Fatalf("error body = %+v", body)
	}

	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/themes/Seasons%20Calendar/seasons", nil))
	var seasons seasonsResponse
	decode(t, rec, &seasons)
	if !seasons.Visible || len(seasons.Choices) != 4 {
		t.Fatalf("seasons = %+v", seasons)
	}

	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/themes/Space%20Adventure/seasons", nil))
	seasons = seasonsResponse{}
	decode(t, rec, &seasons)
	if seasons.Visible || seasons.Choices == nil || len(seasons.Choices) != 0 {
		t.Fatalf("seasons = %+v", seasons)
	}
}

func TestAspectRatios(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/aspect-ratios", nil))
	var body struct {
		Items []photomaker.AspectRatio `json:"items"`
	}
	decode(t, rec, &body)
	if len(body.Items) != 14 || body.Items[0].Name != photomaker.DefaultAspectRatio {
		t.Fatalf("ratios = %+v", body.Items)
	}
}

func TestResolvePrompt(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantSource string
		contains   string
	}{
		{name: "theme with subject", body: `{"theme":"Space Adventure","custom_prompt":"a brave girl img"}`, wantCode: http.StatusOK, wantSource: "theme", contains: "astronaut"},
		{name: "unknown theme", body: `{"theme":"Haunted House"}`, wantCode: http.StatusOK, wantSource: "default"},
		{name: "missing theme", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "bad json", body: `{`, wantCode: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/prompts/resolve", strings.NewReader(tc.body))
			rec := s.do(req)
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.wantCode, rec.Body.String())
			}
			if tc.wantSource == "" {
				return
			}
			var res map[string]any
			decode(t, rec, &res)
			if res["source"] != tc.wantSource {
				t.Fatalf("source = %v", res["source"])
			}
			if tc.contains != "" && !strings.Contains(res["prompt"].(string), tc.contains) {
				t.Fatalf("prompt = %v", res["prompt"])
			}
		})
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func multipartRequest(t *testing.T, fields map[string]string, images int) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("field: %v", err)
		}
	}
	for i := 0; i < images; i++ {
		part, err := mw.CreateFormFile("images", "child.png")
		if err != nil {
			t.Fatalf("file part: %v", err)
		}
		_, _ = part.Write(pngBytes(t))
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/generations", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateGenerationAndDownloads(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(multipartRequest(t, map[string]string{
		"theme":       "Candy Kingdom",
		"num_outputs": "3",
		"seed":        "7",
	}, 2))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var out generation.Outcome
	decode(t, rec, &out)
	if !out.OK || len(out.Paths) != 3 || out.Seed != 7 {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Message != "✅ Generated 3 images successfully!" {
		t.Fatalf("message = %q", out.Message)
	}
	if len(s.pipeline.last.InputImages) != 2 {
		t.Fatalf("pipeline inputs = %d", len(s.pipeline.last.InputImages))
	}

	name := filepath.Base(out.Paths[0])
	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/outputs/"+name, nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("output file = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}

	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/outputs.zip", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("zip status = %d", rec.Code)
	}
	zr, err := kzip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	if len(zr.File) != 3 {
		t.Fatalf("zip entries = %d", len(zr.File))
	}

	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/generations", nil))
	var history struct {
		Items []domain.Run `json:"items"`
	}
	decode(t, rec, &history)
	if len(history.Items) != 1 || history.Items[0].Status != domain.RunStatusSucceeded {
		t.Fatalf("history = %+v", history.Items)
	}
}

func TestCreateGenerationFailures(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		images   int
		wantCode int
		message  string
	}{
		{name: "no images", fields: map[string]string{"theme": "Candy Kingdom"}, images: 0, wantCode: http.StatusUnprocessableEntity, message: "❌ Please upload at least one image of the child."},
		{name: "too many images", fields: map[string]string{"theme": "Candy Kingdom"}, images: 6, wantCode: http.StatusBadRequest},
		{name: "bad seed", fields: map[string]string{"theme": "Candy Kingdom", "seed": "abc"}, images: 1, wantCode: http.StatusBadRequest},
		{name: "missing trigger", fields: map[string]string{"theme": "Candy Kingdom", "prompt": "a child in candy land"}, images: 1, wantCode: http.StatusUnprocessableEntity, message: "❌ Error generating images: trigger word missing"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := s.do(multipartRequest(t, tc.fields, tc.images))
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.wantCode, rec.Body.String())
			}
			if tc.message == "" {
				return
			}
			var out generation.Outcome
			decode(t, rec, &out)
			if !strings.HasPrefix(out.Message, tc.message) {
				t.Fatalf("message = %q", out.Message)
			}
		})
	}
}

func TestCreateGenerationRequiresMultipart(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(httptest.NewRequest(http.MethodPost, "/v1/generations", strings.NewReader(`{"theme":"x"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestOutputsBeforeAnyRun(t *testing.T) {
	s := newTestServer(t)
	if rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/outputs.zip", nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("zip status = %d", rec.Code)
	}
	if rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/outputs/missing.png", nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("file status = %d", rec.Code)
	}
}

func TestParamsFromForm(t *testing.T) {
	p, err := paramsFromForm(map[string][]string{
		"theme":                {" Space Adventure "},
		"num_steps":            {"40"},
		"style_strength_ratio": {""},
		"guidance_scale":       {"6.5"},
		"seed":                 {"123456789012"},
	})
	if err != nil {
		t.Fatalf("paramsFromForm() error = %v", err)
	}
	if p.Theme != "Space Adventure" || p.NumSteps != 40 || p.StyleStrengthRatio != 0 || p.GuidanceScale != 6.5 || p.Seed != 123456789012 {
		t.Fatalf("params = %+v", p)
	}
	if _, err := paramsFromForm(map[string][]string{"guidance_scale": {"high"}}); err == nil {
		t.Fatalf("non-numeric guidance accepted")
	}
}

func TestListGenerationsLimitQuery(t *testing.T) {
	s := newTestServer(t)
	for _, limit := range []string{"0", "-3", "abc", "50000000", "4611686018427387904"} {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/generations?limit="+limit, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("limit=%s status = %d", limit, rec.Code)
		}
	}
}
