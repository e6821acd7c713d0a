package photomaker

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"dreamworld/internal/domain"
	"dreamworld/internal/infra"
	pm "dreamworld/internal/photomaker"
)

// ErrEmptyResult indicates that the sidecar answered without images.
var ErrEmptyResult = errors.New("photomaker: sidecar returned no images")

// Options configures the sidecar client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client talks to the PhotoMaker inference sidecar over HTTP/JSON. It
// satisfies the tokenizer, face detector and pipeline contracts.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger

	mu        sync.Mutex
	triggerID *int
}

var (
	_ pm.Tokenizer    = (*Client)(nil)
	_ pm.FaceDetector = (*Client)(nil)
	_ pm.Pipeline     = (*Client)(nil)
)

type tokenizeRequest struct {
	Text string `json:"text"`
}

type tokenizeResponse struct {
	InputIDs []int `json:"input_ids"`
}

type triggerResponse struct {
	TriggerWord string `json:"trigger_word"`
	TokenID     *int   `json:"token_id"`
}

type frameImage struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels string `json:"channels"`
	Data     string `json:"data"`
}

type facesRequest struct {
	Image frameImage `json:"image"`
}

type facesResponse struct {
	Faces []pm.Face `json:"faces"`
}

type generateRequest struct {
	Prompt                    string      `json:"prompt"`
	NegativePrompt            string      `json:"negative_prompt"`
	Width                     int         `json:"width"`
	Height                    int         `json:"height"`
	InputIDImages             []string    `json:"input_id_images"`
	IDEmbeds                  [][]float32 `json:"id_embeds"`
	NumInferenceSteps         int         `json:"num_inference_steps"`
	StartMergeStep            int         `json:"start_merge_step"`
	GuidanceScale             float64     `json:"guidance_scale"`
	Seed                      int64       `json:"seed"`
	NumImagesPerPrompt        int         `json:"num_images_per_prompt"`
	Sketch                    string      `json:"sketch,omitempty"`
	AdapterConditioningScale  float64     `json:"adapter_conditioning_scale"`
	AdapterConditioningFactor float64     `json:"adapter_conditioning_factor"`
}

type generateResponse struct {
	Images []struct {
		Data     string `json:"data"`
		MIMEType string `json:"mime_type"`
	} `json:"images"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient constructs a client with defaults for unset options.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 5 * time.Minute
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:7860"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

// BaseURL returns the sidecar root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Encode tokenizes text with the pipeline's tokenizer.
func (c *Client) Encode(ctx context.Context, text string) ([]int, error) {
	var out tokenizeResponse
	if err := c.do(ctx, http.MethodPost, "/v1/tokenize", tokenizeRequest{Text: text}, &out); err != nil {
		return nil, err
	}
	return out.InputIDs, nil
}

// TriggerTokenID returns the trigger word's token id. The first successful
// answer is cached for the life of the client.
func (c *Client) TriggerTokenID(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.triggerID != nil {
		return *c.triggerID, nil
	}
	var out triggerResponse
	if err := c.do(ctx, http.MethodGet, "/v1/trigger", nil, &out); err != nil {
		return 0, err
	}
	if out.TokenID == nil {
		return 0, errors.New("photomaker: trigger token id missing")
	}
	id := *out.TokenID
	c.triggerID = &id
	c.logger.Debug().Str("trigger_word", out.TriggerWord).Int("token_id", id).Msg("photomaker: trigger token resolved")
	return id, nil
}

// Detect sends one packed frame to the face analyser.
func (c *Client) Detect(ctx context.Context, frame pm.Frame) ([]pm.Face, error) {
	payload := facesRequest{Image: frameImage{
		Width:    frame.Width,
		Height:   frame.Height,
		Channels: string(frame.Order),
		Data:     base64.StdEncoding.EncodeToString(frame.Pix),
	}}
	var out facesResponse
	if err := c.do(ctx, http.MethodPost, "/v1/faces", payload, &out); err != nil {
		return nil, err
	}
	return out.Faces, nil
}

// Synthesize runs the diffusion pipeline and returns the generated images.
func (c *Client) Synthesize(ctx context.Context, req pm.Synthesis) ([]domain.GeneratedImage, error) {
	payload := generateRequest{
		Prompt:                    req.Prompt,
		NegativePrompt:            req.NegativePrompt,
		Width:                     req.Width,
		Height:                    req.Height,
		InputIDImages:             make([]string, len(req.InputImages)),
		IDEmbeds:                  req.IDEmbeds,
		NumInferenceSteps:         req.NumSteps,
		StartMergeStep:            req.StartMergeStep,
		GuidanceScale:             req.GuidanceScale,
		Seed:                      req.Seed,
		NumImagesPerPrompt:        req.NumImages,
		AdapterConditioningScale:  req.AdapterConditioningScale,
		AdapterConditioningFactor: req.AdapterConditioningFactor,
	}
	for i, data := range req.InputImages {
		payload.InputIDImages[i] = base64.StdEncoding.EncodeToString(data)
	}
	if len(req.Sketch) > 0 {
		payload.Sketch = base64.StdEncoding.EncodeToString(req.Sketch)
	}

	start := time.Now()
	var out generateResponse
	if err := c.do(ctx, http.MethodPost, "/v1/generate", payload, &out); err != nil {
		return nil, err
	}
	if len(out.Images) == 0 {
		return nil, ErrEmptyResult
	}
	images := make([]domain.GeneratedImage, 0, len(out.Images))
	for i, img := range out.Images {
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return nil, fmt.Errorf("photomaker: decode image %d: %w", i, err)
		}
		mime := strings.TrimSpace(img.MIMEType)
		if mime == "" {
			mime = "image/png"
		}
		images = append(images, domain.GeneratedImage{Data: data, MIMEType: mime})
	}
	c.logger.Info().
		Int64("seed", req.Seed).
		Int("images", len(images)).
		Dur("elapsed", time.Since(start)).
		Msg("photomaker: synthesis complete")
	return images, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("photomaker: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("photomaker: build request: %w", err)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("photomaker: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("photomaker: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Message != "" {
			return fmt.Errorf("photomaker: %s (%s)", detail.Error.Message, detail.Error.Code)
		}
		return fmt.Errorf("photomaker: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("photomaker: decode response: %w", err)
	}
	return nil
}
