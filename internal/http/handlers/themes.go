package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"dreamworld/internal/domain"
)

type themeSummary struct {
	Name       string `json:"name"`
	StyleName  string `json:"style_name"`
	HasSeasons bool   `json:"has_seasons"`
}

type seasonsResponse struct {
	Visible bool     `json:"visible"`
	Choices []string `json:"choices"`
}

func (a *App) ListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := a.Service.Themes()
	if err != nil {
		a.writeError(w, err)
		return
	}
	items := make([]themeSummary, 0, len(themes))
	for _, t := range themes {
		items = append(items, themeSummary{Name: t.Name, StyleName: t.StyleName, HasSeasons: t.HasSeasons()})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) GetTheme(w http.ResponseWriter, r *http.Request) {
	name := themeParam(r)
	theme, ok := a.Service.Theme(name)
	if !ok {
		a.writeError(w, fmt.Errorf("theme %q: %w", name, domain.ErrNotFound))
		return
	}
	a.json(w, http.StatusOK, theme)
}

func (a *App) ThemeSeasons(w http.ResponseWriter, r *http.Request) {
	choices, visible := a.Service.Seasons(themeParam(r))
	a.json(w, http.StatusOK, seasonsResponse{Visible: visible, Choices: choices})
}

func (a *App) ListAspectRatios(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": a.AspectRatios})
}

// themeParam returns the decoded theme name; names contain spaces and slashes.
func themeParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}
