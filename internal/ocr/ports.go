package ocr

import (
	"context"
	"image"
)

// Recognizer reads text from an image already flattened to RGB.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}
