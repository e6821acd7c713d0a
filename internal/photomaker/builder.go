package photomaker

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"dreamworld/internal/domain"
	"dreamworld/internal/infra"
	"dreamworld/internal/prompt"
)

const (
	// MaxMergeStep caps the step at which identity conditioning starts.
	MaxMergeStep = 30
	// MaxSeed is the largest seed drawn for the randomize sentinel.
	MaxSeed = 1<<31 - 1

	DefaultNumOutputs = 2
	MaxNumOutputs     = 4

	SketchConditioningScale  = 0.7
	SketchConditioningFactor = 0.8
)

// Options configures a Builder. Zero values select defaults.
type Options struct {
	Tokenizer           Tokenizer
	Detector            FaceDetector
	Styles              StyleTable
	AspectRatios        AspectRatios
	Logger              *infra.Logger
	ChannelOrder        ChannelOrder
	MaxDetectSide       int
	DetectConcurrency   int
	DetectRatePerSecond float64
	EmbeddingTTL        time.Duration
	RandomSeed          func() int64
}

// Builder validates resolved prompts and prepares pipeline submissions.
type Builder struct {
	tokenizer     Tokenizer
	detector      FaceDetector
	styles        StyleTable
	ratios        AspectRatios
	logger        *infra.Logger
	order         ChannelOrder
	maxDetectSide int
	concurrency   int
	limiter       *rate.Limiter
	embeddings    *cache.Cache
	randomSeed    func() int64
}

// noFace marks a cached image in which detection found nothing.
type noFace struct{}

// NewBuilder constructs a Builder with defaults for every unset option.
func NewBuilder(opts Options) *Builder {
	tokenizer := opts.Tokenizer
	if tokenizer == nil {
		tokenizer = NewWordTokenizer(DefaultTriggerWord)
	}
	styles := opts.Styles
	if styles == nil {
		styles = DefaultStyles()
	}
	ratios := opts.AspectRatios
	if ratios == nil {
		ratios = DefaultAspectRatios()
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	order := opts.ChannelOrder
	if order == "" {
		order = OrderBGR
	}
	maxSide := opts.MaxDetectSide
	if maxSide == 0 {
		maxSide = 1280
	}
	concurrency := opts.DetectConcurrency
	if concurrency <= 0 {
		concurrency = 3
	}
	limit := rate.Inf
	if opts.DetectRatePerSecond > 0 {
		limit = rate.Limit(opts.DetectRatePerSecond)
	}
	ttl := opts.EmbeddingTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	randomSeed := opts.RandomSeed
	if randomSeed == nil {
		randomSeed = func() int64 { return rand.Int64N(MaxSeed + 1) }
	}
	return &Builder{
		tokenizer:     tokenizer,
		detector:      opts.Detector,
		styles:        styles,
		ratios:        ratios,
		logger:        logger,
		order:         order,
		maxDetectSide: maxSide,
		concurrency:   concurrency,
		limiter:       rate.NewLimiter(limit, concurrency),
		embeddings:    cache.New(ttl, 2*ttl),
		randomSeed:    randomSeed,
	}
}

// Build validates the resolved prompt and assembles the request.
func (b *Builder) Build(ctx context.Context, res prompt.Resolution, paths []string, numOutputs int, seed int64) (domain.GenerationRequest, error) {
	if err := CheckTriggerWord(ctx, b.tokenizer, res.Prompt); err != nil {
		return domain.GenerationRequest{}, err
	}
	if len(paths) == 0 {
		return domain.GenerationRequest{}, domain.ValidationError(domain.ErrNoImages)
	}
	if err := checkParameters(res); err != nil {
		return domain.GenerationRequest{}, err
	}
	return domain.GenerationRequest{
		Prompt:             res.Prompt,
		NegativePrompt:     res.NegativePrompt,
		StyleName:          res.StyleName,
		NumSteps:           res.NumSteps,
		StyleStrengthRatio: res.StyleStrengthRatio,
		GuidanceScale:      res.GuidanceScale,
		Seed:               ResolveSeed(seed, b.randomSeed),
		NumOutputs:         clampOutputs(numOutputs),
		ImagePaths:         append([]string(nil), paths...),
		AspectRatio:        DefaultAspectRatio,
	}, nil
}

func checkParameters(res prompt.Resolution) error {
	switch {
	case res.NumSteps <= 0:
		return domain.ValidationError(fmt.Errorf("%w: num_steps must be positive", domain.ErrInvalidParameters))
	case res.StyleStrengthRatio < 0 || res.StyleStrengthRatio > 100:
		return domain.ValidationError(fmt.Errorf("%w: style_strength_ratio must be within 0-100", domain.ErrInvalidParameters))
	case res.GuidanceScale <= 0:
		return domain.ValidationError(fmt.Errorf("%w: guidance_scale must be positive", domain.ErrInvalidParameters))
	}
	return nil
}

func clampOutputs(n int) int {
	if n <= 0 {
		return DefaultNumOutputs
	}
	if n > MaxNumOutputs {
		return MaxNumOutputs
	}
	return n
}

// CheckTriggerWord requires the trigger token to occur exactly once in text.
func CheckTriggerWord(ctx context.Context, tok Tokenizer, text string) error {
	triggerID, err := tok.TriggerTokenID(ctx)
	if err != nil {
		return fmt.Errorf("photomaker: trigger token: %w", err)
	}
	ids, err := tok.Encode(ctx, text)
	if err != nil {
		return fmt.Errorf("photomaker: tokenize prompt: %w", err)
	}
	count := 0
	for _, id := range ids {
		if id == triggerID {
			count++
		}
	}
	switch {
	case count == 0:
		return domain.ValidationError(domain.ErrTriggerMissing)
	case count > 1:
		return domain.ValidationError(domain.ErrTriggerDuplicated)
	}
	return nil
}

// ResolveSeed treats 0 as "draw a fresh seed"; any other value is kept.
// A literal seed of 0 therefore cannot be reproduced.
func ResolveSeed(seed int64, random func() int64) int64 {
	if seed != 0 {
		return seed
	}
	return random()
}

// MergeStep returns floor(ratio/100 * steps) capped at MaxMergeStep.
func MergeStep(styleStrengthRatio, numSteps int) int {
	step := styleStrengthRatio * numSteps / 100
	if step < 0 {
		return 0
	}
	if step > MaxMergeStep {
		return MaxMergeStep
	}
	return step
}

// Prepare applies the style, extracts face embeddings and derives the
// remaining pipeline parameters for req.
func (b *Builder) Prepare(ctx context.Context, req domain.GenerationRequest) (Synthesis, error) {
	if b.detector == nil {
		return Synthesis{}, errors.New("photomaker: face detector is not configured")
	}
	styled, styledNegative := b.styles.Apply(req.StyleName, req.Prompt, req.NegativePrompt)

	width, height, ok := b.ratios.Size(req.AspectRatio)
	if !ok {
		width, height, _ = b.ratios.Size(DefaultAspectRatio)
	}
	if width == 0 || height == 0 {
		width, height = 1024, 1024
	}

	inputs := make([][]byte, len(req.ImagePaths))
	for i, path := range req.ImagePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return Synthesis{}, domain.IOError(fmt.Sprintf("read staged image %s", path), err)
		}
		inputs[i] = data
	}

	embeds, err := b.extractEmbeddings(ctx, req.ImagePaths, inputs)
	if err != nil {
		return Synthesis{}, err
	}

	syn := Synthesis{
		Prompt:         styled,
		NegativePrompt: styledNegative,
		Width:          width,
		Height:         height,
		InputImages:    inputs,
		IDEmbeds:       embeds,
		NumSteps:       req.NumSteps,
		StartMergeStep: MergeStep(req.StyleStrengthRatio, req.NumSteps),
		GuidanceScale:  req.GuidanceScale,
		Seed:           req.Seed,
		NumImages:      req.NumOutputs,
	}
	if req.SketchPath != "" {
		sketch, err := loadSketch(req.SketchPath)
		if err != nil {
			return Synthesis{}, err
		}
		syn.Sketch = sketch
		syn.AdapterConditioningScale = SketchConditioningScale
		syn.AdapterConditioningFactor = SketchConditioningFactor
	}

	b.logger.Debug().
		Int64("seed", syn.Seed).
		Str("prompt", syn.Prompt).
		Str("negative_prompt", syn.NegativePrompt).
		Int("start_merge_step", syn.StartMergeStep).
		Int("faces", len(embeds)).
		Int("width", width).
		Int("height", height).
		Msg("photomaker: prepared synthesis")
	return syn, nil
}

// extractEmbeddings keeps the first face's embedding of every image in which
// a face is found, in input order.
func (b *Builder) extractEmbeddings(ctx context.Context, paths []string, inputs [][]byte) ([][]float32, error) {
	results := make([][]float32, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i := range inputs {
		g.Go(func() error {
			if err := b.limiter.Wait(gctx); err != nil {
				return err
			}
			embedding, err := b.embed(gctx, paths[i], inputs[i])
			if err != nil {
				return err
			}
			results[i] = embedding
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	embeds := make([][]float32, 0, len(results))
	for i, e := range results {
		if e == nil {
			b.logger.Debug().Str("image", paths[i]).Msg("photomaker: no face detected")
			continue
		}
		embeds = append(embeds, e)
	}
	if len(embeds) == 0 {
		return nil, domain.ValidationError(domain.ErrNoFace)
	}
	return embeds, nil
}

func (b *Builder) embed(ctx context.Context, path string, data []byte) ([]float32, error) {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if v, ok := b.embeddings.Get(key); ok {
		switch e := v.(type) {
		case []float32:
			return e, nil
		case noFace:
			return nil, nil
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("decode staged image %s", path), err)
	}
	faces, err := b.detector.Detect(ctx, ToFrame(img, b.order, b.maxDetectSide))
	if err != nil {
		return nil, fmt.Errorf("photomaker: detect faces in %s: %w", path, err)
	}
	if len(faces) == 0 || len(faces[0].Embedding) == 0 {
		b.embeddings.SetDefault(key, noFace{})
		return nil, nil
	}
	embedding := append([]float32(nil), faces[0].Embedding...)
	b.embeddings.SetDefault(key, embedding)
	return embedding, nil
}

func loadSketch(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("read sketch %s", path), err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("decode sketch %s", path), err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, PrepareSketch(img)); err != nil {
		return nil, fmt.Errorf("photomaker: encode sketch: %w", err)
	}
	return buf.Bytes(), nil
}
