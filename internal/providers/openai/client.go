package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Takuma-AI/openai-images-mcp/internal/imagegen"
	"github.com/Takuma-AI/openai-images-mcp/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("openai: api key is required")

// Options configures the OpenAI images client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the OpenAI image generation API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

type generationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type generationResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param"`
	Code    string `json:"code"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 45 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "dall-e-3"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// GenerateImage issues exactly one generation call requesting a single
// image URL. The model does not support batched generation in this mode, so
// n is always 1 and no retry is attempted.
func (c *Client) GenerateImage(ctx context.Context, req imagegen.GenerationRequest) (*imagegen.Generation, error) {
	if !c.HasCredentials() {
		return nil, fmt.Errorf("%w: %v", imagegen.ErrAuthentication, ErrMissingAPIKey)
	}
	payload := generationRequest{
		Model:          c.model,
		Prompt:         req.Prompt,
		N:              1,
		Size:           req.Size,
		Quality:        req.Quality,
		Style:          req.Style,
		ResponseFormat: "url",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("openai: encode request: %w", err)
	}
	endpoint := c.baseURL + "/images/generations"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %v", imagegen.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: openai: read response: %v", imagegen.ErrNetwork, err)
	}

	var decoded generationResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if resp.StatusCode >= 300 {
			return nil, classify(resp.StatusCode, nil, raw)
		}
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if resp.StatusCode >= 300 || decoded.Error != nil {
		return nil, classify(resp.StatusCode, decoded.Error, raw)
	}
	if len(decoded.Data) == 0 || strings.TrimSpace(decoded.Data[0].URL) == "" {
		return nil, errors.New("openai: response contained no image url")
	}
	c.logger.Debug().
		Str("model", c.model).
		Str("size", req.Size).
		Str("quality", req.Quality).
		Str("style", req.Style).
		Msg("openai: generated image")
	return &imagegen.Generation{
		URL:           decoded.Data[0].URL,
		RevisedPrompt: decoded.Data[0].RevisedPrompt,
	}, nil
}

// classify maps the remote error envelope onto the local failure classes.
// Kind is informative only; the message is what callers act on.
func classify(status int, apiErr *apiError, raw []byte) error {
	message := ""
	code := ""
	errType := ""
	if apiErr != nil {
		message = strings.TrimSpace(apiErr.Message)
		code = apiErr.Code
		errType = apiErr.Type
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
		if message == "" {
			message = fmt.Sprintf("status %d", status)
		}
	}
	switch {
	case status == http.StatusUnauthorized || code == "invalid_api_key" || errType == "authentication_error":
		return fmt.Errorf("%w: check your OpenAI API key: %s", imagegen.ErrAuthentication, message)
	case code == "insufficient_quota" || errType == "insufficient_quota":
		return fmt.Errorf("%w: check your OpenAI account billing: %s", imagegen.ErrQuotaExceeded, message)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: wait before trying again: %s", imagegen.ErrRateLimit, message)
	case code == "content_policy_violation" || errType == "image_generation_user_error":
		return fmt.Errorf("%w: %s", imagegen.ErrContentPolicy, message)
	default:
		return fmt.Errorf("openai: %s", message)
	}
}
