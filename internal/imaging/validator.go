package imaging

import (
	"strings"

	"github.com/samber/lo"

	"vaultweb/chat-service/internal/apperrors"
)

const DefaultMaxSizeBytes int64 = 5 * 1024 * 1024

var DefaultAllowedMimeTypes = []string{MimeJPEG, MimePNG, MimeGIF, MimeWEBP}

type ValidatedImage struct {
	Data     []byte
	MimeType string
}

// Validator checks an upload against a size limit and a MIME allow-list.
type Validator struct {
	maxSizeBytes int64
	allowed      []string
	detector     FormatDetector
}

func NewValidator(maxSizeBytes int64, allowed []string, detector FormatDetector) *Validator {
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSizeBytes
	}
	allowed = lo.Uniq(lo.FilterMap(allowed, func(item string, _ int) (string, bool) {
		mt := strings.ToLower(strings.TrimSpace(item))
		return mt, mt != ""
	}))
	if len(allowed) == 0 {
		allowed = DefaultAllowedMimeTypes
	}
	if detector == nil {
		detector = MagicBytesDetector{}
	}
	return &Validator{maxSizeBytes: maxSizeBytes, allowed: allowed, detector: detector}
}

func (v *Validator) MaxSizeBytes() int64 {
	return v.maxSizeBytes
}

func (v *Validator) Validate(data []byte, declaredContentType string) (ValidatedImage, error) {
	if len(data) == 0 {
		return ValidatedImage{}, apperrors.InvalidInput("Image file cannot be empty")
	}
	if int64(len(data)) > v.maxSizeBytes {
		return ValidatedImage{}, apperrors.InvalidInput("Image file too large")
	}

	detected := v.detector.Detect(data, declaredContentType)
	if detected == "" || !lo.Contains(v.allowed, detected) {
		label := detected
		if label == "" {
			label = "none"
		}
		return ValidatedImage{}, apperrors.InvalidInput(
			"Unsupported image type. Detected: %s. Allowed: [%s]", label, strings.Join(v.allowed, ", "))
	}

	return ValidatedImage{Data: data, MimeType: detected}, nil
}
