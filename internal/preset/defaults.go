package preset

import "dreamworld/internal/domain"

const childSafeNegative = "nsfw, lowres, bad anatomy, bad hands, text, error, missing fingers, extra digit, fewer digits, cropped, worst quality, low quality, scary, creepy, dark, sinister"

// DefaultCatalog returns the catalog written when no preset file exists yet.
// The first group binds the subject through the trigger word directly; the
// second group are subject templates that expect a custom subject.
func DefaultCatalog() domain.Catalog {
	themes := make([]domain.Theme, 0, len(dreamWorldThemes)+len(styleThemes))
	themes = append(themes, dreamWorldThemes...)
	themes = append(themes, styleThemes...)
	for i := range themes {
		if themes[i].Seasons != nil {
			themes[i].Seasons = append([]string(nil), themes[i].Seasons...)
		}
	}
	return domain.Catalog{Themes: themes}
}

var dreamWorldThemes = []domain.Theme{
	{
		Name:               "Magical Forest",
		Prompt:             "a child img exploring a magical forest with glowing mushrooms and fairy lights, fantasy, dreamy atmosphere, vibrant colors",
		NegativePrompt:     childSafeNegative,
		StyleName:          "Fantasy",
		NumSteps:           60,
		StyleStrengthRatio: 25,
		GuidanceScale:      6.0,
	},
	{
		Name:               "Space Adventure",
		Prompt:             "a child img as an astronaut exploring a colorful nebula space, planets in background, cartoon style, vibrant colors, whimsical, dreamy",
		NegativePrompt:     childSafeNegative,
		StyleName:          "Anime",
		NumSteps:           55,
		StyleStrengthRatio: 30,
		GuidanceScale:      5.5,
	},
	{
		Name:               "Candy Kingdom",
		Prompt:             "a child img in a kingdom made of candy and sweets, lollipop trees, chocolate rivers, cotton candy clouds, vibrant colors, whimsical, fun",
		NegativePrompt:     childSafeNegative,
		StyleName:          "Artistic",
		NumSteps:           50,
		StyleStrengthRatio: 25,
		GuidanceScale:      5.0,
	},
	{
		Name:               "Underwater World",
		Prompt:             "a child img as a mermaid/merman swimming underwater with colorful fish and coral reefs, bubbles, sunbeams filtering through water, fantasy, dreamy",
		NegativePrompt:     childSafeNegative,
		StyleName:          "Fantasy",
		NumSteps:           55,
		StyleStrengthRatio: 20,
		GuidanceScale:      5.5,
	},
	{
		Name:               "Cloud City",
		Prompt:             "a child img standing on fluffy clouds, floating castles in sky, rainbow bridges, flying creatures, dreamlike atmosphere, whimsical, bright",
		NegativePrompt:     childSafeNegative,
		StyleName:          "Fantasy",
		NumSteps:           50,
		StyleStrengthRatio: 25,
		GuidanceScale:      5.0,
	},
	{
		Name:               "Fairy Tale",
		Prompt:             "a child img in a fairy tale scene with castles, dragons, unicorns, magic wands, storybook style, vibrant colors, fantastical",
		NegativePrompt:     childSafeNegative,
		StyleName:          "Fantasy",
		NumSteps:           60,
		StyleStrengthRatio: 25,
		GuidanceScale:      6.0,
	},
	{
		Name:               "Toy World",
		Prompt:             "a child img in a world of giant toys, teddy bears, toy soldiers, building blocks, cartoon style, vibrant colors, playful, dreamy",
		NegativePrompt:     childSafeNegative,
		StyleName:          "Artistic",
		NumSteps:           50,
		StyleStrengthRatio: 25,
		GuidanceScale:      5.0,
	},
	{
		Name:               "Dinosaur Adventure",
		Prompt:             "a child img exploring a prehistoric world with friendly dinosaurs, lush jungle, volcanoes in distance, cartoon style, vibrant colors",
		NegativePrompt:     childSafeNegative,
		StyleName:          "Artistic",
		NumSteps:           55,
		StyleStrengthRatio: 25,
		GuidanceScale:      5.5,
	},
	{
		Name:               "Comic Book Hero",
		Prompt:             "a child img as a superhero in comic book style, bright colors, dynamic pose, comic panel background, speech bubbles, onomatopoeia",
		NegativePrompt:     childSafeNegative,
		StyleName:          "Artistic",
		NumSteps:           50,
		StyleStrengthRatio: 30,
		GuidanceScale:      5.5,
	},
	{
		Name:               "Seasons Calendar",
		Prompt:             "a child img in a [season] themed scene, calendar style, vibrant colors, seasonal elements, whimsical",
		NegativePrompt:     childSafeNegative,
		StyleName:          "Photographic (Default)",
		NumSteps:           55,
		StyleStrengthRatio: 20,
		GuidanceScale:      5.0,
		Seasons: []string{
			"spring with flowers and butterflies",
			"summer with beach and sunshine",
			"autumn with falling leaves",
			"winter with snow and festivities",
		},
	},
}

var styleThemes = []domain.Theme{
	styleTheme("(No style)", "{prompt}", "", "Fantasy"),
	styleTheme("Cinematic",
		"cinematic still {prompt} . emotional, harmonious, vignette, highly detailed, high budget, bokeh, cinemascope, moody, epic, gorgeous, film grain, grainy",
		"anime, cartoon, graphic, text, painting, crayon, graphite, abstract, glitch, deformed, mutated, ugly, disfigured",
		"Anime"),
	styleTheme("Disney Character",
		"A Pixar animation character of {prompt} . pixar-style, studio anime, Disney, high-quality",
		"lowres, bad anatomy, bad hands, text, bad eyes, bad arms, bad legs, error, missing fingers, extra digit, fewer digits, cropped, worst quality, low quality, normal quality, jpeg artifacts, signature, watermark, blurry, grayscale, noisy, sloppy, messy, grainy, highly detailed, ultra textured, photo",
		"Artistic"),
	styleTheme("Digital Art",
		"concept art {prompt} . digital artwork, illustrative, painterly, matte painting, highly detailed",
		"photo, photorealistic, realism, ugly",
		"Fantasy"),
	styleTheme("Photographic (Default)",
		"cinematic photo {prompt} . 35mm photograph, film, bokeh, professional, 4k, highly detailed",
		"drawing, painting, crayon, sketch, graphite, impressionist, noisy, blurry, soft, deformed, ugly",
		"Fantasy"),
	styleTheme("Fantasy art",
		"ethereal fantasy concept art of {prompt} . magnificent, celestial, ethereal, painterly, epic, majestic, magical, fantasy art, cover art, dreamy",
		"photographic, realistic, realism, 35mm film, dslr, cropped, frame, text, deformed, glitch, noise, noisy, off-center, deformed, cross-eyed, closed eyes, bad anatomy, ugly, disfigured, sloppy, duplicate, mutated, black and white",
		"Fantasy"),
	styleTheme("Neonpunk",
		"neonpunk style {prompt} . cyberpunk, vaporwave, neon, vibes, vibrant, stunningly beautiful, crisp, detailed, sleek, ultramodern, magenta highlights, dark purple shadows, high contrast, cinematic, ultra detailed, intricate, professional",
		"painting, drawing, illustration, glitch, deformed, mutated, cross-eyed, ugly, disfigured",
		"Artistic"),
	styleTheme("Enhance",
		"breathtaking {prompt} . award-winning, professional, highly detailed",
		"ugly, deformed, noisy, blurry, distorted, grainy",
		"Artistic"),
	styleTheme("Comic book",
		"comic {prompt} . graphic illustration, comic art, graphic novel art, vibrant, highly detailed",
		"photograph, deformed, glitch, noisy, realistic, stock photo",
		"Artistic"),
	styleTheme("Lowpoly",
		"low-poly style {prompt} . low-poly game art, polygon mesh, jagged, blocky, wireframe edges, centered composition",
		"noisy, sloppy, messy, grainy, highly detailed, ultra textured, photo",
		"Artistic"),
	styleTheme("Line art",
		"line art drawing {prompt} . professional, sleek, modern, minimalist, graphic, line art, vector graphics",
		"anime, photorealistic, 35mm film, deformed, glitch, blurry, noisy, off-center, deformed, cross-eyed, closed eyes, bad anatomy, ugly, disfigured, mutated, realism, realistic, impressionism, expressionism, oil, acrylic",
		"Artistic"),
}

func styleTheme(name, prompt, negative, style string) domain.Theme {
	return domain.Theme{
		Name:               name,
		Prompt:             prompt,
		NegativePrompt:     negative,
		StyleName:          style,
		NumSteps:           50,
		StyleStrengthRatio: 20,
		GuidanceScale:      5.0,
	}
}
