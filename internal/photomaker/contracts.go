// Package photomaker prepares identity-conditioned generation requests for an
// external PhotoMaker-style pipeline: trigger-word validation, style
// application, face-embedding extraction and parameter derivation.
package photomaker

import (
	"context"

	"dreamworld/internal/domain"
)

// Tokenizer exposes the pipeline's text vocabulary.
type Tokenizer interface {
	Encode(ctx context.Context, text string) ([]int, error)
	TriggerTokenID(ctx context.Context) (int, error)
}

// FaceDetector finds faces in a packed 8-bit frame.
type FaceDetector interface {
	Detect(ctx context.Context, frame Frame) ([]Face, error)
}

// StyleTable wraps a prompt pair in a named style.
type StyleTable interface {
	Apply(style, prompt, negative string) (string, string)
}

// AspectRatios maps a named aspect ratio to a pixel size.
type AspectRatios interface {
	Size(name string) (width, height int, ok bool)
}

// Pipeline runs the identity-conditioned diffusion model.
type Pipeline interface {
	Synthesize(ctx context.Context, req Synthesis) ([]domain.GeneratedImage, error)
}

// Face is one detection result.
type Face struct {
	Embedding []float32  `json:"embedding"`
	BBox      [4]float32 `json:"bbox"`
	Score     float32    `json:"score"`
}

// Synthesis is everything the pipeline call needs. InputImages are the
// staged identity images as stored; a nil Sketch disables the adapter.
type Synthesis struct {
	Prompt                    string
	NegativePrompt            string
	Width                     int
	Height                    int
	InputImages               [][]byte
	IDEmbeds                  [][]float32
	NumSteps                  int
	StartMergeStep            int
	GuidanceScale             float64
	Seed                      int64
	NumImages                 int
	Sketch                    []byte
	AdapterConditioningScale  float64
	AdapterConditioningFactor float64
}
