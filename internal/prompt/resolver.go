// Package prompt turns a theme selection into the prompt text and parameters
// submitted for generation.
package prompt

import (
	"strings"

	"dreamworld/internal/domain"
)

// Source tells whether a Resolution came from a catalog theme or from the
// built-in fallback used when the selected theme no longer exists.
type Source string

const (
	SourceTheme   Source = "theme"
	SourceDefault Source = "default"
)

const (
	DefaultNumSteps           = 50
	DefaultStyleStrengthRatio = 20
	DefaultGuidanceScale      = 5.0
)

// Resolution is the resolved prompt bundle for one theme selection.
type Resolution struct {
	Source             Source  `json:"source"`
	ThemeName          string  `json:"theme"`
	Prompt             string  `json:"prompt"`
	NegativePrompt     string  `json:"negative_prompt"`
	StyleName          string  `json:"style_name"`
	NumSteps           int     `json:"num_steps"`
	StyleStrengthRatio int     `json:"style_strength_ratio"`
	GuidanceScale      float64 `json:"guidance_scale"`
}

// IsDefault reports whether the fallback values were applied.
func (r Resolution) IsDefault() bool {
	return r.Source == SourceDefault
}

// Default returns the fallback bundle for an unknown theme.
func Default(name string) Resolution {
	return Resolution{
		Source:             SourceDefault,
		ThemeName:          name,
		NumSteps:           DefaultNumSteps,
		StyleStrengthRatio: DefaultStyleStrengthRatio,
		GuidanceScale:      DefaultGuidanceScale,
	}
}

// Resolve substitutes the optional subject and season into the theme's
// prompt template. Numeric parameters are passed through, except that values
// missing from an older preset document (zero) take the Default* values.
func Resolve(theme domain.Theme, found bool, season, subject string) Resolution {
	if !found {
		return Default(theme.Name)
	}
	text := theme.Prompt
	if subject != "" {
		text = strings.ReplaceAll(text, domain.SubjectPlaceholder, subject)
	}
	if season != "" && strings.Contains(text, domain.SeasonPlaceholder) {
		text = strings.ReplaceAll(text, domain.SeasonPlaceholder, season)
	}
	return Resolution{
		Source:             SourceTheme,
		ThemeName:          theme.Name,
		Prompt:             text,
		NegativePrompt:     theme.NegativePrompt,
		StyleName:          theme.StyleName,
		NumSteps:           orDefault(theme.NumSteps, DefaultNumSteps),
		StyleStrengthRatio: orDefault(theme.StyleStrengthRatio, DefaultStyleStrengthRatio),
		GuidanceScale:      orDefault(theme.GuidanceScale, DefaultGuidanceScale),
	}
}

func orDefault[T int | float64](v, fallback T) T {
	if v <= 0 {
		return fallback
	}
	return v
}

// ThemeFinder is satisfied by preset.Store.
type ThemeFinder interface {
	FindTheme(name string) (domain.Theme, bool)
}

// ResolveByName looks the theme up and resolves it.
func ResolveByName(finder ThemeFinder, name, season, subject string) Resolution {
	if finder == nil {
		return Default(name)
	}
	theme, ok := finder.FindTheme(name)
	if !ok {
		return Default(name)
	}
	return Resolve(theme, true, season, subject)
}

// Overrides carries values edited by the user after resolution. Zero values
// keep the resolved value.
type Overrides struct {
	Prompt             string
	NegativePrompt     string
	StyleName          string
	NumSteps           int
	StyleStrengthRatio int
	GuidanceScale      float64
}

// Apply returns r with every non-zero override applied.
func (r Resolution) Apply(o Overrides) Resolution {
	if o.Prompt != "" {
		r.Prompt = o.Prompt
	}
	if o.NegativePrompt != "" {
		r.NegativePrompt = o.NegativePrompt
	}
	if o.StyleName != "" {
		r.StyleName = o.StyleName
	}
	if o.NumSteps != 0 {
		r.NumSteps = o.NumSteps
	}
	if o.StyleStrengthRatio != 0 {
		r.StyleStrengthRatio = o.StyleStrengthRatio
	}
	if o.GuidanceScale != 0 {
		r.GuidanceScale = o.GuidanceScale
	}
	return r
}
