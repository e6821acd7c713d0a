package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"dreamworld/internal/adapter/repo"
	"dreamworld/internal/domain"
	"dreamworld/internal/domain/jsoncfg"
	"dreamworld/internal/generation"
	"dreamworld/internal/middleware"
	"dreamworld/internal/storage"
)

const multipartMemory = 32 << 20

func (a *App) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes*(jsoncfg.MaxUploads+1))
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds size limit")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "multipart form required")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["images"]
	if len(files) > jsoncfg.MaxUploads {
		a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("at most %d images", jsoncfg.MaxUploads))
		return
	}
	uploads := make([]storage.Upload, 0, len(files))
	for _, fh := range files {
		up, err := a.readPart(fh)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		uploads = append(uploads, up)
	}
	var sketch storage.Upload
	if parts := r.MultipartForm.File["sketch"]; len(parts) > 0 {
		up, err := a.readPart(parts[0])
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		sketch = up
	}

	params, err := paramsFromForm(r.MultipartForm.Value)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	params.Locale = middleware.LocaleFromContext(r.Context())

	out := a.Service.Generate(r.Context(), generation.Input{Uploads: uploads, Sketch: sketch, Params: params})
	a.json(w, outcomeStatus(out), out)
}

func (a *App) ListGenerations(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := a.Service.History(r.Context(), repo.ClampHistoryLimit(limit))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": runs})
}

func (a *App) readPart(fh *multipart.FileHeader) (storage.Upload, error) {
	if fh.Size > a.MaxUploadBytes {
		return storage.Upload{}, fmt.Errorf("%s exceeds %d bytes", fh.Filename, a.MaxUploadBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return storage.Upload{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return storage.Upload{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return storage.Upload{Data: data, Filename: fh.Filename}, nil
}

func outcomeStatus(out generation.Outcome) int {
	switch {
	case out.OK:
		return http.StatusOK
	case errors.Is(out.Err, domain.ErrBusy):
		return http.StatusServiceUnavailable
	}
	return http.StatusUnprocessableEntity
}

// paramsFromForm reads generation fields; blank numeric fields keep the
// theme's values.
func paramsFromForm(values map[string][]string) (jsoncfg.GenerationParams, error) {
	get := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	p := jsoncfg.GenerationParams{
		Theme:          get("theme"),
		Season:         get("season"),
		CustomPrompt:   get("custom_prompt"),
		Prompt:         get("prompt"),
		NegativePrompt: get("negative_prompt"),
		StyleName:      get("style_name"),
		AspectRatio:    get("aspect_ratio"),
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"num_steps", &p.NumSteps},
		{"style_strength_ratio", &p.StyleStrengthRatio},
		{"num_outputs", &p.NumOutputs},
	}
	for _, f := range ints {
		if raw := get(f.key); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return p, fmt.Errorf("%s must be an integer", f.key)
			}
			*f.dst = n
		}
	}
	if raw := get("guidance_scale"); raw != "" {
		g, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("guidance_scale must be a number")
		}
		p.GuidanceScale = g
	}
	if raw := get("seed"); raw != "" {
		s, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return p, fmt.Errorf("seed must be an integer")
		}
		p.Seed = s
	}
	return p, nil
}
