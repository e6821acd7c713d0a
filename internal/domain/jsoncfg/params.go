package jsoncfg

import (
	"fmt"
	"strings"
)

// GenerationParams is the user-facing parameter form shared by the HTTP API
// and the CLI. Zero numeric values mean "take the value from the theme".
type GenerationParams struct {
	Theme              string  `json:"theme"`
	Season             string  `json:"season,omitempty"`
	CustomPrompt       string  `json:"custom_prompt,omitempty"`
	Prompt             string  `json:"prompt,omitempty"`
	NegativePrompt     string  `json:"negative_prompt,omitempty"`
	StyleName          string  `json:"style_name,omitempty"`
	NumSteps           int     `json:"num_steps,omitempty"`
	StyleStrengthRatio int     `json:"style_strength_ratio,omitempty"`
	GuidanceScale      float64 `json:"guidance_scale,omitempty"`
	NumOutputs         int     `json:"num_outputs"`
	Seed               int64   `json:"seed"`
	AspectRatio        string  `json:"aspect_ratio"`
	Locale             string  `json:"locale"`
}

const (
	// DefaultNumOutputs is used when the request omits the output count.
	DefaultNumOutputs = 2
	// MaxNumOutputs caps how many generated images are kept per run.
	MaxNumOutputs = 4
	// DefaultAspectRatio names the square resolution used when none is chosen.
	DefaultAspectRatio = "Instagram (1:1)"
	// DefaultLocale is applied when no locale preference is provided.
	DefaultLocale = "en"

	MinNumSteps           = 20
	MaxNumSteps           = 100
	MinStyleStrengthRatio = 15
	MaxStyleStrengthRatio = 50
	MinGuidanceScale      = 0.1
	MaxGuidanceScale      = 10.0
	MaxUploads            = 5
)

// Normalize applies server defaults and limits.
func (p *GenerationParams) Normalize(preferredLocale string) {
	if p == nil {
		return
	}
	p.Theme = strings.TrimSpace(p.Theme)
	p.AspectRatio = strings.TrimSpace(p.AspectRatio)
	if p.NumOutputs <= 0 {
		p.NumOutputs = DefaultNumOutputs
	}
	if p.NumOutputs > MaxNumOutputs {
		p.NumOutputs = MaxNumOutputs
	}
	if p.Seed < 0 {
		p.Seed = 0
	}
	if p.AspectRatio == "" {
		p.AspectRatio = DefaultAspectRatio
	}
	if p.Locale == "" {
		if preferredLocale != "" {
			p.Locale = preferredLocale
		} else {
			p.Locale = DefaultLocale
		}
	}
}

// Validate checks user overrides against the slider bounds of the form.
func (p GenerationParams) Validate() error {
	if p.Theme == "" {
		return fmt.Errorf("theme is required")
	}
	if p.NumSteps != 0 && (p.NumSteps < MinNumSteps || p.NumSteps > MaxNumSteps) {
		return fmt.Errorf("num_steps must be between %d and %d", MinNumSteps, MaxNumSteps)
	}
	if p.StyleStrengthRatio != 0 && (p.StyleStrengthRatio < MinStyleStrengthRatio || p.StyleStrengthRatio > MaxStyleStrengthRatio) {
		return fmt.Errorf("style_strength_ratio must be between %d and %d", MinStyleStrengthRatio, MaxStyleStrengthRatio)
	}
	if p.GuidanceScale != 0 && (p.GuidanceScale < MinGuidanceScale || p.GuidanceScale > MaxGuidanceScale) {
		return fmt.Errorf("guidance_scale must be between %.1f and %.1f", MinGuidanceScale, MaxGuidanceScale)
	}
	if p.NumOutputs < 1 || p.NumOutputs > MaxNumOutputs {
		return fmt.Errorf("num_outputs must be between 1 and %d", MaxNumOutputs)
	}
	return nil
}
