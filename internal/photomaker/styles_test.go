package photomaker

import (
	"context"
	"strings"
	"testing"
)

func TestStylesApply(t *testing.T) {
	styles := DefaultStyles()
	tests := []struct {
		name         string
		style        string
		wantPrompt   string
		wantNegative string
	}{
		{
			name:         "no style keeps prompt",
			style:        "(No style)",
			wantPrompt:   "a child img",
			wantNegative: " nsfw",
		},
		{
			name:         "comic wraps prompt",
			style:        "Comic book",
			wantPrompt:   "comic a child img . graphic illustration, comic art, graphic novel art, vibrant, highly detailed",
			wantNegative: "photograph, deformed, glitch, noisy, realistic, stock photo nsfw",
		},
		{
			name:         "unknown style falls back",
			style:        "Anime",
			wantPrompt:   "cinematic photo a child img . 35mm photograph, film, bokeh, professional, 4k, highly detailed",
			wantNegative: "drawing, painting, crayon, sketch, graphite, impressionist, noisy, blurry, soft, deformed, ugly nsfw",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, n := styles.Apply(tc.style, "a child img", "nsfw")
			if p != tc.wantPrompt {
				t.Fatalf("prompt = %q, want %q", p, tc.wantPrompt)
			}
			if n != tc.wantNegative {
				t.Fatalf("negative = %q, want %q", n, tc.wantNegative)
			}
		})
	}
}

func TestStyleTemplatesKeepTriggerWord(t *testing.T) {
	styles := DefaultStyles()
	tok := NewWordTokenizer(DefaultTriggerWord)
	for _, name := range styles.Names() {
		p, _ := styles.Apply(name, "a girl img riding a dragon", "")
		if err := CheckTriggerWord(context.Background(), tok, p); err != nil {
			t.Fatalf("style %q: %v (prompt %q)", name, err, p)
		}
	}
}

func TestStylesNamesSorted(t *testing.T) {
	names := DefaultStyles().Names()
	if len(names) != 11 {
		t.Fatalf("len(Names()) = %d, want 11", len(names))
	}
	for i := 1; i < len(names); i++ {
		if strings.Compare(names[i-1], names[i]) >= 0 {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}

func TestRatioTableSize(t *testing.T) {
	table := DefaultAspectRatios()
	w, h, ok := table.Size("Cinemascope (2.39:1)")
	if !ok || w != 1024 || h != 424 {
		t.Fatalf("Size() = %d, %d, %v", w, h, ok)
	}
	if _, _, ok := table.Size("instagram (1:1)"); ok {
		t.Fatalf("lookup should be case sensitive")
	}
	if w, h, ok := table.Size(DefaultAspectRatio); !ok || w != 1024 || h != 1024 {
		t.Fatalf("default ratio = %d, %d, %v", w, h, ok)
	}
}
