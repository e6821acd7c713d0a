package photomaker

import (
	"sort"
	"strings"

	"dreamworld/internal/domain"
)

// DefaultStyleName is used for unknown style names.
const DefaultStyleName = "Photographic (Default)"

// Style is a prompt wrapper and its negative-prompt baseline.
type Style struct {
	Prompt   string
	Negative string
}

// Styles is the built-in style table.
type Styles map[string]Style

// DefaultStyles returns the PhotoMaker style table.
func DefaultStyles() Styles {
	return Styles{
		"(No style)": {Prompt: "{prompt}", Negative: ""},
		"Cinematic": {
			Prompt:   "cinematic still {prompt} . emotional, harmonious, vignette, highly detailed, high budget, bokeh, cinemascope, moody, epic, gorgeous, film grain, grainy",
			Negative: "anime, cartoon, graphic, text, painting, crayon, graphite, abstract, glitch, deformed, mutated, ugly, disfigured",
		},
		"Disney Character": {
			Prompt:   "A Pixar animation character of {prompt} . pixar-style, studio anime, Disney, high-quality",
			Negative: "lowres, bad anatomy, bad hands, text, bad eyes, bad arms, bad legs, error, missing fingers, extra digit, fewer digits, cropped, worst quality, low quality, normal quality, jpeg artifacts, signature, watermark, blurry, grayscale, noisy, sloppy, messy, grainy, highly detailed, ultra textured, photo",
		},
		"Digital Art": {
			Prompt:   "concept art {prompt} . digital artwork, illustrative, painterly, matte painting, highly detailed",
			Negative: "photo, photorealistic, realism, ugly",
		},
		"Photographic (Default)": {
			Prompt:   "cinematic photo {prompt} . 35mm photograph, film, bokeh, professional, 4k, highly detailed",
			Negative: "drawing, painting, crayon, sketch, graphite, impressionist, noisy, blurry, soft, deformed, ugly",
		},
		"Fantasy art": {
			Prompt:   "ethereal fantasy concept art of {prompt} . magnificent, celestial, ethereal, painterly, epic, majestic, magical, fantasy art, cover art, dreamy",
			Negative: "photographic, realistic, realism, 35mm film, dslr, cropped, frame, text, deformed, glitch, noise, noisy, off-center, deformed, cross-eyed, closed eyes, bad anatomy, ugly, disfigured, sloppy, duplicate, mutated, black and white",
		},
		"Neonpunk": {
			Prompt:   "neonpunk style {prompt} . cyberpunk, vaporwave, neon, vibes, vibrant, stunningly beautiful, crisp, detailed, sleek, ultramodern, magenta highlights, dark purple shadows, high contrast, cinematic, ultra detailed, intricate, professional",
			Negative: "painting, drawing, illustration, glitch, deformed, mutated, cross-eyed, ugly, disfigured",
		},
		"Enhance": {
			Prompt:   "breathtaking {prompt} . award-winning, professional, highly detailed",
			Negative: "ugly, deformed, noisy, blurry, distorted, grainy",
		},
		"Comic book": {
			Prompt:   "comic {prompt} . graphic illustration, comic art, graphic novel art, vibrant, highly detailed",
			Negative: "photograph, deformed, glitch, noisy, realistic, stock photo",
		},
		"Lowpoly": {
			Prompt:   "low-poly style {prompt} . low-poly game art, polygon mesh, jagged, blocky, wireframe edges, centered composition",
			Negative: "noisy, sloppy, messy, grainy, highly detailed, ultra textured, photo",
		},
		"Line art": {
			Prompt:   "line art drawing {prompt} . professional, sleek, modern, minimalist, graphic, black and white, vector graphics",
			Negative: "anime, photorealistic, 35mm film, deformed, glitch, blurry, noisy, off-center, deformed, cross-eyed, closed eyes, bad anatomy, ugly, disfigured, mutated, realism, realistic, impressionism, expressionism, oil, acrylic, sculpture",
		},
	}
}

// Apply splices prompt into the style template and prefixes the style's
// negative baseline to negative. Unknown names use DefaultStyleName.
func (s Styles) Apply(name, prompt, negative string) (string, string) {
	style, ok := s[name]
	if !ok {
		style = s[DefaultStyleName]
	}
	return strings.ReplaceAll(style.Prompt, domain.SubjectPlaceholder, prompt), style.Negative + " " + negative
}

// Names returns the style names sorted alphabetically.
func (s Styles) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
