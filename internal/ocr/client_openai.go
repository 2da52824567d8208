package ocr

import (
	"context"
	"image"
)

type imageTextReader interface {
	ReadImageText(ctx context.Context, jpeg []byte) (string, error)
}

// OpenAIRecognizer sends the image to a hosted vision model.
type OpenAIRecognizer struct {
	client imageTextReader
}

func NewOpenAIRecognizer(client imageTextReader) *OpenAIRecognizer {
	return &OpenAIRecognizer{client: client}
}

func (c *OpenAIRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	data, err := EncodeJPEG(img)
	if err != nil {
		return "", err
	}
	return c.client.ReadImageText(ctx, data)
}
