package domain

const (
	// SubjectPlaceholder is replaced by the caller's custom subject text.
	SubjectPlaceholder = "{prompt}"
	// SeasonPlaceholder is replaced by the selected season label.
	SeasonPlaceholder = "[season]"
)

// Theme is a named prompt and parameter preset.
type Theme struct {
	Name               string   `json:"name"`
	Prompt             string   `json:"prompt"`
	NegativePrompt     string   `json:"negative_prompt"`
	StyleName          string   `json:"style_name"`
	NumSteps           int      `json:"num_steps"`
	StyleStrengthRatio int      `json:"style_strength_ratio"`
	GuidanceScale      float64  `json:"guidance_scale"`
	Seasons            []string `json:"seasons,omitempty"`
}

// HasSeasons reports whether the theme offers season variants.
func (t Theme) HasSeasons() bool {
	return len(t.Seasons) > 0
}

// Catalog is the ordered theme list persisted in the preset document.
type Catalog struct {
	Themes []Theme `json:"dream_world_themes"`
}

// Names returns theme names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.Themes))
	for _, t := range c.Themes {
		names = append(names, t.Name)
	}
	return names
}

// Find performs an exact-name lookup.
func (c Catalog) Find(name string) (Theme, bool) {
	for _, t := range c.Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
