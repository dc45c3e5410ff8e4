package imaging

import (
	"bytes"
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeGIF  = "image/gif"
	MimeWEBP = "image/webp"
)

// Detection strategies selectable through configuration.
const (
	DetectionMagic    = "magic"
	DetectionDeclared = "declared"
	DetectionMimetype = "mimetype"
)

// minSniffLength is the shortest payload the magic-byte detector inspects;
// the WEBP fourcc ends at byte 12.
const minSniffLength = 12

// FormatDetector resolves the MIME type of an upload. It returns "" when the
// format cannot be determined.
type FormatDetector interface {
	Detect(data []byte, declaredContentType string) string
}

func NewDetector(strategy string) (FormatDetector, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", DetectionMagic:
		return MagicBytesDetector{}, nil
	case DetectionDeclared:
		return DeclaredTypeDetector{}, nil
	case DetectionMimetype:
		return MimetypeDetector{}, nil
	default:
		return nil, fmt.Errorf("unknown image detection strategy %q", strategy)
	}
}

// MagicBytesDetector ignores the declared type and inspects the leading bytes.
type MagicBytesDetector struct{}

var (
	jpegSignature = []byte{0xFF, 0xD8, 0xFF}
	pngSignature  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	gif87a        = []byte("GIF87a")
	gif89a        = []byte("GIF89a")
	riff          = []byte("RIFF")
	webp          = []byte("WEBP")
)

func (MagicBytesDetector) Detect(data []byte, _ string) string {
	if len(data) < minSniffLength {
		return ""
	}

	switch {
	case bytes.HasPrefix(data, jpegSignature):
		return MimeJPEG
	case bytes.HasPrefix(data, pngSignature):
		return MimePNG
	case bytes.HasPrefix(data, gif87a), bytes.HasPrefix(data, gif89a):
		return MimeGIF
	case bytes.HasPrefix(data, riff) && bytes.Equal(data[8:12], webp):
		return MimeWEBP
	}
	return ""
}

// DeclaredTypeDetector trusts the client supplied content type.
type DeclaredTypeDetector struct{}

func (DeclaredTypeDetector) Detect(_ []byte, declaredContentType string) string {
	return normalize(declaredContentType)
}

// MimetypeDetector sniffs the payload with the mimetype library.
type MimetypeDetector struct{}

func (MimetypeDetector) Detect(data []byte, _ string) string {
	if len(data) == 0 {
		return ""
	}
	detected := normalize(mimetype.Detect(data).String())
	if detected == "application/octet-stream" {
		return ""
	}
	return detected
}

// normalize strips parameters and lower-cases a media type; invalid input yields "".
func normalize(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mediaType
}
