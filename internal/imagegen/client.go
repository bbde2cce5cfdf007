package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"

	"batchedit/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without
// credentials. Callers must refuse to start a batch on this condition rather
// than fail item by item.
var ErrMissingAPIKey = errors.New("imagegen: api key is required")

// Options configures the DashScope Qwen image edit client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	Watermark      bool
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the DashScope multimodal generation API using
// the image edit model family.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	watermark  bool
	httpClient *http.Client
	logger     *infra.Logger
}

type editRequest struct {
	Model      string     `json:"model"`
	Input      editInput  `json:"input"`
	Parameters editParams `json:"parameters"`
}

type editInput struct {
	Messages []editMessage `json:"messages"`
}

type editMessage struct {
	Role    string        `json:"role"`
	Content []editContent `json:"content"`
}

type editContent struct {
	Image string `json:"image,omitempty"`
	Text  string `json:"text,omitempty"`
}

type editParams struct {
	Watermark *bool `json:"watermark,omitempty"`
}

type editResponse struct {
	Output struct {
		Choices []struct {
			Message struct {
				Content []struct {
					Image string `json:"image"`
				} `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	Usage struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"usage"`
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://dashscope-intl.aliyuncs.com/api/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "qwen-image-edit"
	}
	logger := opts.Logger
	if logger == nil {
		discard := infra.Logger(zerolog.New(io.Discard))
		logger = &discard
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		watermark:  opts.Watermark,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// EditOnce submits one image plus one instruction to the remote model and
// returns the edited image. The image bytes travel inline as a base64 data
// URL; the response carries a hosted URL which is downloaded before
// returning, mirroring the two-step DashScope flow.
func (c *Client) EditOnce(ctx context.Context, data []byte, instruction string) (*EditedImage, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, errors.New("imagegen: instruction is required")
	}
	if len(data) == 0 {
		return nil, errors.New("imagegen: image payload is required")
	}

	payload := editRequest{
		Model: c.model,
		Input: editInput{
			Messages: []editMessage{{
				Role: "user",
				Content: []editContent{
					{Image: "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)},
					{Text: instruction},
				},
			}},
		},
	}
	watermark := c.watermark
	payload.Parameters.Watermark = &watermark

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("imagegen: encode request: %w", err)
	}
	endpoint := c.baseURL + "/services/aigc/multimodal-generation/generation"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("imagegen: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("imagegen: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("imagegen: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Message != "" {
			return nil, fmt.Errorf("imagegen: %s (%s)", detail.Message, detail.Code)
		}
		return nil, fmt.Errorf("imagegen: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded editResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("imagegen: decode response: %w", err)
	}
	if decoded.Code != "" {
		return nil, fmt.Errorf("imagegen: %s (%s)", decoded.Message, decoded.Code)
	}
	imageURL := firstImageURL(decoded)
	if imageURL == "" {
		return nil, errors.New("imagegen: empty image url")
	}
	edited, format, err := c.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	width, height := decoded.Usage.Width, decoded.Usage.Height
	if width == 0 || height == 0 {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(edited)); err == nil {
			width, height = cfg.Width, cfg.Height
		}
	}
	c.logger.Debug().
		Str("model", c.model).
		Str("request_id", decoded.RequestID).
		Int("bytes", len(edited)).
		Msg("imagegen: edited image asset")
	return &EditedImage{URL: imageURL, Data: edited, Format: normalizeFormat(format), Width: width, Height: height}, nil
}

func (c *Client) download(ctx context.Context, imageURL string) ([]byte, string, error) {
	parsed, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil || parsed.Scheme == "" {
		return nil, "", fmt.Errorf("imagegen: invalid image url: %s", imageURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("imagegen: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: read image: %w", err)
	}
	format := resp.Header.Get("Content-Type")
	if format == "" {
		format = "image/png"
	}
	return data, format, nil
}

func firstImageURL(resp editResponse) string {
	for _, choice := range resp.Output.Choices {
		for _, content := range choice.Message.Content {
			if url := strings.TrimSpace(content.Image); url != "" {
				return url
			}
		}
	}
	return ""
}

func normalizeFormat(contentType string) string {
	format := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
	if idx := strings.IndexByte(format, ';'); idx >= 0 {
		format = format[:idx]
	}
	if format == "" {
		return "png"
	}
	return format
}

var _ Editor = (*Client)(nil)
