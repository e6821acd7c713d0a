package domain

import "time"

// GenerationRequest is the validated parameter set for one submission to the
// synthesis pipeline. It is rebuilt for every generate action.
type GenerationRequest struct {
	Prompt             string
	NegativePrompt     string
	StyleName          string
	NumSteps           int
	StyleStrengthRatio int
	GuidanceScale      float64
	Seed               int64
	NumOutputs         int
	ImagePaths         []string
	AspectRatio        string
	SketchPath         string
}

// RunStatus enumerates the outcome of a generation run.
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the history record of one generation attempt.
type Run struct {
	ID          string    `json:"id"`
	ThemeName   string    `json:"theme_name"`
	Prompt      string    `json:"prompt"`
	Seed        int64     `json:"seed"`
	Status      RunStatus `json:"status"`
	Message     string    `json:"message"`
	OutputPaths []string  `json:"output_paths"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}
