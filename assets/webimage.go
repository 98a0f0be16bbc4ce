package assets

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// Decoders for the accepted source formats. HEIC has no pure-Go
	// decoder; those files stay raw-only and the generator warns about the
	// missing web image.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// DefaultMaxWebBytes is the published-image size budget.
	DefaultMaxWebBytes = 1 << 20
	// DefaultMaxDimension bounds the longest edge of a web image.
	DefaultMaxDimension = 1200

	jpegQualityStart = 85
	jpegQualityFloor = 30
	jpegQualityStep  = 5
)

// DecodeImage parses raw Drive bytes into an image.
func DecodeImage(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// EncodeWeb derives the published JPEG: bounded to maxDim on the longest
// edge, quality stepped down until the encoded size fits maxBytes. The
// lowest-quality attempt is returned even when it still misses the budget;
// the validator catches that case with a row error instead of publishing.
func EncodeWeb(src image.Image, maxDim int, maxBytes int64) ([]byte, error) {
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxWebBytes
	}

	bounds := src.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		src = imaging.Fit(src, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	for q := jpegQualityStart; ; q -= jpegQualityStep {
		buf.Reset()
		if err := imaging.Encode(&buf, src, imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		if int64(buf.Len()) <= maxBytes || q-jpegQualityStep < jpegQualityFloor {
			break
		}
	}
	return buf.Bytes(), nil
}
