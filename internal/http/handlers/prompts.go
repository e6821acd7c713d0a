package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type resolvePromptRequest struct {
	Theme        string `json:"theme"`
	Season       string `json:"season"`
	CustomPrompt string `json:"custom_prompt"`
}

func (a *App) ResolvePrompt(w http.ResponseWriter, r *http.Request) {
	var req resolvePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Theme) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "theme is required")
		return
	}
	a.json(w, http.StatusOK, a.Service.Resolve(req.Theme, req.Season, req.CustomPrompt))
}
