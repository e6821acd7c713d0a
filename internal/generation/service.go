// Package generation wires the preset store, prompt resolver, upload stager,
// request builder, pipeline and output collector into one generate action.
package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"dreamworld/internal/domain"
	"dreamworld/internal/domain/jsoncfg"
	"dreamworld/internal/infra"
	"dreamworld/internal/photomaker"
	"dreamworld/internal/preset"
	"dreamworld/internal/prompt"
	"dreamworld/internal/storage"
)

// Input is one generate action.
type Input struct {
	Uploads []storage.Upload
	Sketch  storage.Upload
	Params  jsoncfg.GenerationParams
}

// Outcome reports a run to the user. Generate never returns an error; a
// failed run has OK false and a user-facing Message. Err keeps the cause for
// callers that map it to a status code.
type Outcome struct {
	RunID      string             `json:"run_id"`
	OK         bool               `json:"ok"`
	Message    string             `json:"message"`
	Paths      []string           `json:"paths"`
	Seed       int64              `json:"seed,omitempty"`
	Resolution *prompt.Resolution `json:"resolution,omitempty"`
	Err        error              `json:"-"`
}

// Options configures a Service.
type Options struct {
	Presets            *preset.Store
	Stager             *storage.Stager
	Collector          *storage.Collector
	Builder            *photomaker.Builder
	Pipeline           photomaker.Pipeline
	Runs               domain.RunRepository
	Logger             infra.Logger
	DefaultLocale      string
	DefaultAspectRatio string
	Clock              func() time.Time
	NewID              func() string
}

// Service runs generations one at a time.
type Service struct {
	presets       *preset.Store
	stager        *storage.Stager
	collector     *storage.Collector
	builder       *photomaker.Builder
	pipeline      photomaker.Pipeline
	runs          domain.RunRepository
	logger        infra.Logger
	defaultLocale string
	defaultAspect string
	clock         func() time.Time
	newID         func() string
	sem           *semaphore.Weighted
}

// NewService validates opts and applies defaults.
func NewService(opts Options) (*Service, error) {
	switch {
	case opts.Presets == nil:
		return nil, errors.New("generation: preset store is required")
	case opts.Stager == nil:
		return nil, errors.New("generation: stager is required")
	case opts.Collector == nil:
		return nil, errors.New("generation: collector is required")
	case opts.Builder == nil:
		return nil, errors.New("generation: builder is required")
	case opts.Pipeline == nil:
		return nil, errors.New("generation: pipeline is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}
	locale := opts.DefaultLocale
	if locale == "" {
		locale = jsoncfg.DefaultLocale
	}
	return &Service{
		presets:       opts.Presets,
		stager:        opts.Stager,
		collector:     opts.Collector,
		builder:       opts.Builder,
		pipeline:      opts.Pipeline,
		runs:          opts.Runs,
		logger:        infra.Component(opts.Logger, "generation"),
		defaultLocale: locale,
		defaultAspect: opts.DefaultAspectRatio,
		clock:         clock,
		newID:         newID,
		sem:           semaphore.NewWeighted(1),
	}, nil
}

// Themes returns the catalog in document order.
func (s *Service) Themes() ([]domain.Theme, error) {
	catalog, err := s.presets.LoadCatalog()
	if err != nil {
		return nil, err
	}
	return catalog.Themes, nil
}

// Theme looks up one theme by exact name.
func (s *Service) Theme(name string) (domain.Theme, bool) {
	return s.presets.FindTheme(name)
}

// Seasons returns the season choices of a theme and whether the season
// selector should be shown at all.
func (s *Service) Seasons(name string) ([]string, bool) {
	options := s.presets.SeasonOptions(name)
	return options, len(options) > 0
}

// Resolve fills the theme template with the optional season and subject.
func (s *Service) Resolve(theme, season, subject string) prompt.Resolution {
	return prompt.ResolveByName(s.presets, theme, season, subject)
}

// History returns recent runs, newest first. Without a repository it is empty.
func (s *Service) History(ctx context.Context, limit int) ([]domain.Run, error) {
	if s.runs == nil {
		return []domain.Run{}, nil
	}
	return s.runs.Recent(ctx, limit)
}

// Generate performs one full run: resolve, stage, build, synthesize, collect.
func (s *Service) Generate(ctx context.Context, in Input) Outcome {
	params := in.Params
	if params.AspectRatio == "" {
		params.AspectRatio = s.defaultAspect
	}
	params.Normalize(s.defaultLocale)
	locale := params.Locale

	runID := s.newID()
	start := s.clock()
	log := s.logger.With().Str("run_id", runID).Str("theme", params.Theme).Logger()

	if !hasUploads(in.Uploads) {
		out := Outcome{RunID: runID, Message: noImagesMessage(locale), Paths: []string{}, Err: domain.ValidationError(domain.ErrNoImages)}
		s.record(ctx, out, params.Theme, "", start)
		return out
	}

	if n := len(in.Uploads); n > jsoncfg.MaxUploads {
		return s.fail(ctx, runID, params.Theme, "", locale, start,
			domain.ValidationError(fmt.Errorf("%w: at most %d images, got %d", domain.ErrInvalidParameters, jsoncfg.MaxUploads, n)))
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return s.fail(ctx, runID, params.Theme, "", locale, start, fmt.Errorf("%w: %v", domain.ErrBusy, err))
	}
	defer s.sem.Release(1)

	if err := params.Validate(); err != nil {
		return s.fail(ctx, runID, params.Theme, "", locale, start,
			domain.ValidationError(fmt.Errorf("%w: %v", domain.ErrInvalidParameters, err)))
	}

	res := s.Resolve(params.Theme, params.Season, params.CustomPrompt).Apply(prompt.Overrides{
		Prompt:             params.Prompt,
		NegativePrompt:     params.NegativePrompt,
		StyleName:          params.StyleName,
		NumSteps:           params.NumSteps,
		StyleStrengthRatio: params.StyleStrengthRatio,
		GuidanceScale:      params.GuidanceScale,
	})
	if res.IsDefault() {
		log.Warn().Msg("generation: theme not found, using default parameters")
	}

	paths, err := s.stager.Stage(ctx, in.Uploads)
	if err != nil {
		return s.fail(ctx, runID, params.Theme, res.Prompt, locale, start, err)
	}
	sketchPath, err := s.stager.StageSketch(ctx, in.Sketch)
	if err != nil {
		return s.fail(ctx, runID, params.Theme, res.Prompt, locale, start, err)
	}

	req, err := s.builder.Build(ctx, res, paths, params.NumOutputs, params.Seed)
	if err != nil {
		return s.fail(ctx, runID, params.Theme, res.Prompt, locale, start, err)
	}
	req.AspectRatio = params.AspectRatio
	req.SketchPath = sketchPath

	syn, err := s.builder.Prepare(ctx, req)
	if err != nil {
		return s.failSeed(ctx, runID, params.Theme, res.Prompt, locale, start, req.Seed, err)
	}
	images, err := s.pipeline.Synthesize(ctx, syn)
	if err != nil {
		return s.failSeed(ctx, runID, params.Theme, res.Prompt, locale, start, req.Seed, err)
	}

	saved, err := s.collector.Persist(ctx, images, params.Theme, storage.Timestamp(start), req.NumOutputs)
	if err != nil {
		return s.failSeed(ctx, runID, params.Theme, res.Prompt, locale, start, req.Seed, err)
	}

	out := Outcome{
		RunID:      runID,
		OK:         true,
		Message:    successMessage(locale, len(saved)),
		Paths:      saved,
		Seed:       req.Seed,
		Resolution: &res,
	}
	log.Info().
		Int64("seed", req.Seed).
		Int("images", len(saved)).
		Dur("elapsed", s.clock().Sub(start)).
		Msg("generation: run succeeded")
	s.record(ctx, out, params.Theme, res.Prompt, start)
	return out
}

func (s *Service) fail(ctx context.Context, runID, theme, text, locale string, start time.Time, err error) Outcome {
	return s.failSeed(ctx, runID, theme, text, locale, start, 0, err)
}

func (s *Service) failSeed(ctx context.Context, runID, theme, text, locale string, start time.Time, seed int64, err error) Outcome {
	out := Outcome{
		RunID:   runID,
		Message: failureMessage(locale, err),
		Paths:   []string{},
		Seed:    seed,
		Err:     err,
	}
	s.logger.Warn().Err(err).Str("run_id", runID).Str("kind", string(domain.KindOf(err))).Msg("generation: run failed")
	s.record(ctx, out, theme, text, start)
	return out
}

// record stores the run in history. History failures never change the outcome.
func (s *Service) record(ctx context.Context, out Outcome, theme, text string, start time.Time) {
	if s.runs == nil {
		return
	}
	status := domain.RunStatusFailed
	if out.OK {
		status = domain.RunStatusSucceeded
	}
	run := &domain.Run{
		ID:          out.RunID,
		ThemeName:   theme,
		Prompt:      text,
		Seed:        out.Seed,
		Status:      status,
		Message:     out.Message,
		OutputPaths: out.Paths,
		DurationMS:  s.clock().Sub(start).Milliseconds(),
		CreatedAt:   start.UTC(),
	}
	if err := s.runs.Record(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Error().Err(err).Str("run_id", out.RunID).Msg("generation: record run")
	}
}

func hasUploads(uploads []storage.Upload) bool {
	for _, up := range uploads {
		if !up.IsEmpty() {
			return true
		}
	}
	return false
}
