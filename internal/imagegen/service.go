package imagegen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Takuma-AI/openai-images-mcp/internal/infra"
	"github.com/Takuma-AI/openai-images-mcp/internal/storage"
)

// expiryNote mirrors the remote service's URL lifetime so callers know the
// link is ephemeral.
const expiryNote = "Image generated successfully. The URL will expire after 1 hour."

// defaultFilenameLayout includes sub-second precision so filenames from
// successive calls in one process never collide.
const defaultFilenameLayout = "20060102-150405.000000000"

// ServiceOptions carries the dependencies for a Service. Generator,
// Downloader and Store are required.
type ServiceOptions struct {
	Generator  Generator
	Downloader Downloader
	Store      Store
	Logger     *infra.Logger
	Now        func() time.Time
}

// Service exposes the image operations as result-returning calls. Every
// failure in the taxonomy is converted into a structured result; no error
// escapes to the caller as a fault. The service holds no per-call state and
// is safe for concurrent use.
type Service struct {
	generator  Generator
	downloader Downloader
	store      Store
	logger     *infra.Logger
	now        func() time.Time
}

// NewService wires a Service from its dependencies.
func NewService(opts ServiceOptions) (*Service, error) {
	if opts.Generator == nil {
		return nil, errors.New("imagegen: generator is required")
	}
	if opts.Downloader == nil {
		return nil, errors.New("imagegen: downloader is required")
	}
	if opts.Store == nil {
		return nil, errors.New("imagegen: store is required")
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		generator:  opts.Generator,
		downloader: opts.Downloader,
		store:      opts.Store,
		logger:     logger,
		now:        now,
	}, nil
}

// Generate validates the inputs, performs one remote generation call and
// returns the outcome as a value.
func (s *Service) Generate(ctx context.Context, prompt, size, quality, style string) GenerationResult {
	req, err := NewGenerationRequest(prompt, size, quality, style)
	if err != nil {
		return GenerationResult{Success: false, Error: stageError("generation", err)}
	}
	gen, err := s.generator.GenerateImage(ctx, req)
	if err != nil {
		s.logger.Warn().Err(err).Msg("imagegen: generation failed")
		return GenerationResult{Success: false, Error: stageError("generation", err)}
	}
	s.logger.Info().Str("size", req.Size).Str("quality", req.Quality).Str("style", req.Style).
		Msg("imagegen: image generated")
	return GenerationResult{
		Success:       true,
		ImageURL:      gen.URL,
		RevisedPrompt: gen.RevisedPrompt,
		Parameters:    &Parameters{Size: req.Size, Quality: req.Quality, Style: req.Style},
		Message:       expiryNote,
	}
}

// Save fetches the image bytes at imageURL and writes them under the
// managed directory (or dir when supplied). An omitted filename gets a
// timestamp-derived default.
func (s *Service) Save(ctx context.Context, imageURL, filename, dir string) SaveResult {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		err := fmt.Errorf("%w: image_url is required", ErrValidation)
		return SaveResult{Success: false, Error: stageError("save", err)}
	}
	img, err := s.fetchAndStore(ctx, imageURL, filename, dir)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", imageURL).Msg("imagegen: save failed")
		return SaveResult{Success: false, Error: stageError("save", err)}
	}
	s.logger.Info().Str("file", img.Filename).Int64("bytes", img.Bytes).Msg("imagegen: image saved")
	return SaveResult{Success: true, Image: img}
}

// GenerateAndSave runs Generate then Save. A generation failure is returned
// unchanged and the save is never attempted; a save failure keeps the
// generation fields and reports the save error, the generation is not
// undone.
func (s *Service) GenerateAndSave(ctx context.Context, prompt, size, quality, style, filename, dir string) GenerateAndSaveResult {
	gen := s.Generate(ctx, prompt, size, quality, style)
	if !gen.Success {
		return GenerateAndSaveResult{Success: false, Error: gen.Error}
	}
	out := GenerateAndSaveResult{
		ImageURL:      gen.ImageURL,
		RevisedPrompt: gen.RevisedPrompt,
		Parameters:    gen.Parameters,
	}
	img, err := s.fetchAndStore(ctx, gen.ImageURL, filename, dir)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", gen.ImageURL).Msg("imagegen: save after generation failed")
		out.Error = stageError("save", err)
		return out
	}
	out.Success = true
	out.Image = img
	out.Message = "Image generated and saved."
	return out
}

func (s *Service) fetchAndStore(ctx context.Context, imageURL, filename, dir string) (*storage.SavedImage, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		name = "dalle-" + s.now().UTC().Format(defaultFilenameLayout)
	}
	data, contentType, err := s.downloader.Download(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	img, err := s.store.Save(ctx, dir, name, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFilesystem, err)
	}
	return img, nil
}

func stageError(stage string, err error) string {
	return stage + ": " + err.Error()
}
