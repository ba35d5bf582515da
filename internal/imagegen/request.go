package imagegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// MaxPromptLength is the remote model's prompt ceiling in characters.
const MaxPromptLength = 4000

// Canonical parameter literals accepted by the generation endpoint.
const (
	SizeSquare    = "1024x1024"
	SizeLandscape = "1792x1024"
	SizePortrait  = "1024x1792"

	QualityStandard = "standard"
	QualityHD       = "hd"

	StyleVivid   = "vivid"
	StyleNatural = "natural"
)

// sizeAliases maps friendly orientation names onto the endpoint's fixed
// dimension strings. Anything outside this table and the canonical set is a
// validation failure, never a silent coercion.
var sizeAliases = map[string]string{
	"square":    SizeSquare,
	"landscape": SizeLandscape,
	"portrait":  SizePortrait,
}

var (
	validSizes     = []string{SizeSquare, SizeLandscape, SizePortrait}
	validQualities = []string{QualityStandard, QualityHD}
	validStyles    = []string{StyleVivid, StyleNatural}
)

// GenerationRequest is a validated image generation request. Construct it
// through NewGenerationRequest so defaults and alias normalization apply.
type GenerationRequest struct {
	Prompt  string `json:"prompt" validate:"required,max=4000"`
	Size    string `json:"size" validate:"oneof=1024x1024 1792x1024 1024x1792"`
	Quality string `json:"quality" validate:"oneof=standard hd"`
	Style   string `json:"style" validate:"oneof=vivid natural"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewGenerationRequest assembles a request from caller-supplied values,
// applying defaults for omitted fields. It performs no I/O; any returned
// error wraps ErrValidation and means no remote call should be attempted.
func NewGenerationRequest(prompt, size, quality, style string) (GenerationRequest, error) {
	req := GenerationRequest{
		Prompt:  strings.TrimSpace(prompt),
		Size:    normalizeSize(size),
		Quality: normalizeOrDefault(quality, QualityStandard),
		Style:   normalizeOrDefault(style, StyleVivid),
	}
	if err := validate.Struct(req); err != nil {
		return GenerationRequest{}, validationError(err)
	}
	return req, nil
}

func normalizeSize(size string) string {
	size = strings.ToLower(strings.TrimSpace(size))
	if size == "" {
		return SizeSquare
	}
	if canonical, ok := sizeAliases[size]; ok {
		return canonical
	}
	return size
}

func normalizeOrDefault(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return lo.Ternary(value == "", fallback, value)
}

// validationError flattens validator output into a single human-readable
// message naming the offending field and its accepted values.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fe := fieldErrs[0]
	switch fe.Field() {
	case "Prompt":
		if fe.Tag() == "max" {
			return fmt.Errorf("%w: prompt too long, maximum %d characters", ErrValidation, MaxPromptLength)
		}
		return fmt.Errorf("%w: prompt is required", ErrValidation)
	case "Size":
		return fmt.Errorf("%w: invalid size %q, must be one of: %s", ErrValidation, fe.Value(), joinAllowed(validSizes, lo.Keys(sizeAliases)))
	case "Quality":
		return fmt.Errorf("%w: invalid quality %q, must be one of: %s", ErrValidation, fe.Value(), strings.Join(validQualities, ", "))
	case "Style":
		return fmt.Errorf("%w: invalid style %q, must be one of: %s", ErrValidation, fe.Value(), strings.Join(validStyles, ", "))
	default:
		return fmt.Errorf("%w: invalid field %s", ErrValidation, fe.Field())
	}
}

func joinAllowed(canonical, aliases []string) string {
	all := append(append([]string{}, canonical...), aliases...)
	return strings.Join(all, ", ")
}
