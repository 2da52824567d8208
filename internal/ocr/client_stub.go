package ocr

import (
	"context"
	"image"
)

// StubRecognizer returns fixed text. The image has already been decoded by
// Service, so unreadable input still fails.
type StubRecognizer struct {
	text string
}

func NewStubRecognizer(text string) *StubRecognizer {
	return &StubRecognizer{text: text}
}

func (c *StubRecognizer) Recognize(_ context.Context, _ image.Image) (string, error) {
	return c.text, nil
}
