package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"dreamworld/internal/domain"
	"dreamworld/internal/generation"
	"dreamworld/internal/infra"
	"dreamworld/internal/photomaker"
	"dreamworld/internal/storage"
)

// App holds the dependencies shared by HTTP handlers.
type App struct {
	Service        *generation.Service
	Outputs        *storage.FileStore
	AspectRatios   photomaker.RatioTable
	Logger         infra.Logger
	MaxUploadBytes int64
}

// NewApp wires handlers to the generation service and the output directory.
func NewApp(svc *generation.Service, outputs *storage.FileStore, logger infra.Logger, maxUploadBytes int64) *App {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &App{
		Service:        svc,
		Outputs:        outputs,
		AspectRatios:   photomaker.DefaultAspectRatios(),
		Logger:         infra.Component(logger, "http"),
		MaxUploadBytes: maxUploadBytes,
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errorDetail{Code: errCode, Message: message}})
}

// writeError maps a domain failure to a status code.
func (a *App) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
		return
	case errors.Is(err, domain.ErrBusy):
		a.error(w, http.StatusServiceUnavailable, "busy", err.Error())
		return
	}
	switch domain.KindOf(err) {
	case domain.KindValidation:
		a.error(w, http.StatusUnprocessableEntity, "validation", err.Error())
	case domain.KindIO:
		a.error(w, http.StatusBadRequest, "bad_input", err.Error())
	case domain.KindStorage:
		a.Logger.Error().Err(err).Msg("storage failure")
		a.error(w, http.StatusInternalServerError, "storage", "preset storage unavailable")
	default:
		a.Logger.Error().Err(err).Msg("internal failure")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
