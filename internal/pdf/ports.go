package pdf

import "context"

type PDFPage struct {
	Bytes    []byte
	FileName string
	MimeType string
}

type PDFConverter interface {
	ConvertToImages(ctx context.Context, path string) ([]PDFPage, error)
}
