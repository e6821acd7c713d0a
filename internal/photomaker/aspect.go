package photomaker

// DefaultAspectRatio is the square resolution used when no ratio is chosen.
const DefaultAspectRatio = "Instagram (1:1)"

// AspectRatio is one named output size.
type AspectRatio struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// RatioTable is an ordered aspect-ratio table.
type RatioTable []AspectRatio

// DefaultAspectRatios returns the PhotoMaker aspect-ratio table.
func DefaultAspectRatios() RatioTable {
	return RatioTable{
		{Name: "Instagram (1:1)", Width: 1024, Height: 1024},
		{Name: "35mm film / Landscape (3:2)", Width: 1024, Height: 680},
		{Name: "35mm film / Portrait (2:3)", Width: 680, Height: 1024},
		{Name: "CRT Monitor / Landscape (4:3)", Width: 1024, Height: 768},
		{Name: "CRT Monitor / Portrait (3:4)", Width: 768, Height: 1024},
		{Name: "Widescreen TV / Landscape (16:9)", Width: 1024, Height: 576},
		{Name: "Widescreen TV / Portrait (9:16)", Width: 576, Height: 1024},
		{Name: "Widescreen Monitor / Landscape (16:10)", Width: 1024, Height: 640},
		{Name: "Widescreen Monitor / Portrait (10:16)", Width: 640, Height: 1024},
		{Name: "Cinemascope (2.39:1)", Width: 1024, Height: 424},
		{Name: "Widescreen Movie (1.85:1)", Width: 1024, Height: 552},
		{Name: "Academy Movie (1.37:1)", Width: 1024, Height: 744},
		{Name: "Sheet-print (A-series) / Landscape (297:210)", Width: 1024, Height: 723},
		{Name: "Sheet-print (A-series) / Portrait (210:297)", Width: 723, Height: 1024},
	}
}

// Size looks up a ratio by exact name.
func (t RatioTable) Size(name string) (int, int, bool) {
	for _, r := range t {
		if r.Name == name {
			return r.Width, r.Height, true
		}
	}
	return 0, 0, false
}
