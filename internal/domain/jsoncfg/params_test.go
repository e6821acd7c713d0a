package jsoncfg

import "testing"

func TestGenerationParamsNormalizeDefaults(t *testing.T) {
	p := &GenerationParams{Theme: "  Magical Forest "}
	p.Normalize("")

	if p.Theme != "Magical Forest" {
		t.Fatalf("Theme = %q, want trimmed", p.Theme)
	}
	if p.NumOutputs != DefaultNumOutputs {
		t.Fatalf("NumOutputs = %d, want %d", p.NumOutputs, DefaultNumOutputs)
	}
	if p.AspectRatio != DefaultAspectRatio {
		t.Fatalf("AspectRatio = %q, want %q", p.AspectRatio, DefaultAspectRatio)
	}
	if p.Locale != DefaultLocale {
		t.Fatalf("Locale = %q, want %q", p.Locale, DefaultLocale)
	}
}

func TestGenerationParamsNormalizePreferredLocaleAndClamp(t *testing.T) {
	p := &GenerationParams{NumOutputs: 10, Seed: -3, AspectRatio: "Portrait (2:3)"}
	p.Normalize("id")

	if p.NumOutputs != MaxNumOutputs {
		t.Fatalf("NumOutputs clamp = %d, want %d", p.NumOutputs, MaxNumOutputs)
	}
	if p.Seed != 0 {
		t.Fatalf("Seed = %d, want 0", p.Seed)
	}
	if p.AspectRatio != "Portrait (2:3)" {
		t.Fatalf("AspectRatio should keep explicit value, got %q", p.AspectRatio)
	}
	if p.Locale != "id" {
		t.Fatalf("Locale = %q, want %q", p.Locale, "id")
	}
}

func TestGenerationParamsValidate(t *testing.T) {
	base := GenerationParams{Theme: "Cloud City", NumOutputs: 1}
	tests := []struct {
		name    string
		mutate  func(p *GenerationParams)
		wantErr bool
	}{
		{name: "zero overrides accepted", mutate: func(p *GenerationParams) {}},
		{name: "missing theme", mutate: func(p *GenerationParams) { p.Theme = "" }, wantErr: true},
		{name: "steps in range", mutate: func(p *GenerationParams) { p.NumSteps = 60 }},
		{name: "steps too low", mutate: func(p *GenerationParams) { p.NumSteps = 5 }, wantErr: true},
		{name: "ratio too high", mutate: func(p *GenerationParams) { p.StyleStrengthRatio = 80 }, wantErr: true},
		{name: "guidance too high", mutate: func(p *GenerationParams) { p.GuidanceScale = 12 }, wantErr: true},
		{name: "outputs too many", mutate: func(p *GenerationParams) { p.NumOutputs = 5 }, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := base
			tc.mutate(&p)
			err := p.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("Validate() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}
