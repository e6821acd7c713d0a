package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"dreamworld/pkg/zip"
)

var outputMIME = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".webp": "image/webp",
}

func (a *App) OutputFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	path, err := a.Outputs.Path(name)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid file name")
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		a.error(w, http.StatusNotFound, "not_found", "output not found")
		return
	}
	if mime, ok := outputMIME[filepath.Ext(name)]; ok {
		w.Header().Set("Content-Type", mime)
	}
	http.ServeFile(w, r, path)
}

func (a *App) OutputsZip(w http.ResponseWriter, r *http.Request) {
	names, err := a.Outputs.List()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.writeError(w, err)
		return
	}
	if len(names) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no outputs yet")
		return
	}
	assets := make([]zip.Asset, 0, len(names))
	for _, name := range names {
		data, err := a.Outputs.ReadFile(name)
		if err != nil {
			a.writeError(w, err)
			return
		}
		assets = append(assets, zip.Asset{Filename: name, MIME: outputMIME[filepath.Ext(name)], Data: data})
	}
	archive, err := zip.ArchiveAssets(assets)
	if err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename=dream_world_outputs.zip")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
