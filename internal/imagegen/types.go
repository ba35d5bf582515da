package imagegen

import (
	"context"

	"github.com/Takuma-AI/openai-images-mcp/internal/storage"
)

// Parameters echoes the styling options that produced an image.
type Parameters struct {
	Size    string `json:"size"`
	Quality string `json:"quality"`
	Style   string `json:"style"`
}

// Generation is the raw outcome of one remote generation call.
type Generation struct {
	URL           string
	RevisedPrompt string
}

// GenerationResult is the caller-facing outcome of generate_image. On
// failure only Success and Error are populated.
type GenerationResult struct {
	Success       bool        `json:"success"`
	ImageURL      string      `json:"image_url,omitempty"`
	RevisedPrompt string      `json:"revised_prompt,omitempty"`
	Parameters    *Parameters `json:"parameters,omitempty"`
	Message       string      `json:"message,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// SaveResult is the caller-facing outcome of save_generated_image.
type SaveResult struct {
	Success bool                `json:"success"`
	Image   *storage.SavedImage `json:"image,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// GenerateAndSaveResult combines both stages. When generation succeeds but
// the save fails, the generation fields stay populated, Image is absent and
// Error names the save failure.
type GenerateAndSaveResult struct {
	Success       bool                `json:"success"`
	ImageURL      string              `json:"image_url,omitempty"`
	RevisedPrompt string              `json:"revised_prompt,omitempty"`
	Parameters    *Parameters         `json:"parameters,omitempty"`
	Image         *storage.SavedImage `json:"image,omitempty"`
	Message       string              `json:"message,omitempty"`
	Error         string              `json:"error,omitempty"`
}

// Generator is the contract implemented by remote image providers.
type Generator interface {
	GenerateImage(ctx context.Context, req GenerationRequest) (*Generation, error)
}

// Downloader fetches image bytes from an ephemeral URL.
type Downloader interface {
	Download(ctx context.Context, url string) (data []byte, contentType string, err error)
}

// Store persists image bytes under a managed directory. An empty dir selects
// the managed default.
type Store interface {
	Save(ctx context.Context, dir, filename string, data []byte, contentType string) (*storage.SavedImage, error)
}
