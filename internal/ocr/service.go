package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"golang.org/x/text/unicode/norm"

	"github.com/Vovarama1992/sinhala_workers/internal/pdf"
)

var ErrPDFUnsupported = errors.New("PDF input needs a page renderer")

type Service struct {
	rec   Recognizer
	pages pdf.PDFConverter
	log   *logger.ZapLogger
}

// pages may be nil; PDF inputs are then rejected.
func NewService(rec Recognizer, pages pdf.PDFConverter, log *logger.ZapLogger) *Service {
	return &Service{rec: rec, pages: pages, log: log}
}

// Recognize loads the image at path, flattens it to RGB and runs the
// recognizer once. A PDF is rendered page by page and the page texts are
// joined with blank lines.
func (s *Service) Recognize(ctx context.Context, path string) (string, error) {
	isPDF, err := pdf.IsPDF(path)
	if err != nil {
		return "", err
	}
	if isPDF {
		return s.recognizePDF(ctx, path)
	}

	img, err := LoadRGB(path)
	if err != nil {
		return "", err
	}
	text, err := s.recognize(ctx, img)
	if err != nil {
		return "", err
	}
	return norm.NFC.String(strings.TrimSpace(text)), nil
}

func (s *Service) recognizePDF(ctx context.Context, path string) (string, error) {
	if s.pages == nil {
		return "", ErrPDFUnsupported
	}
	pages, err := s.pages.ConvertToImages(ctx, path)
	if err != nil {
		return "", err
	}
	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("[ocr] pdf rendered to %d pages", len(pages)),
		Service: "ocr",
	})

	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		img, err := DecodeRGB(bytes.NewReader(p.Bytes))
		if err != nil {
			return "", fmt.Errorf("%s: %w", p.FileName, err)
		}
		text, err := s.recognize(ctx, img)
		if err != nil {
			return "", fmt.Errorf("%s: %w", p.FileName, err)
		}
		if t := strings.TrimSpace(text); t != "" {
			texts = append(texts, t)
		}
	}
	return norm.NFC.String(strings.Join(texts, "\n\n")), nil
}

func (s *Service) recognize(ctx context.Context, img *image.RGBA) (string, error) {
	b := img.Bounds()
	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("[ocr] image loaded %dx%d", b.Dx(), b.Dy()),
		Service: "ocr",
	})
	return s.rec.Recognize(ctx, img)
}
