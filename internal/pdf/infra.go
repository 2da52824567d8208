package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
)

// pdftoppm render resolution; OCR models want at least 300 dpi
const renderDPI = 300

var magic = []byte("%PDF-")

type PopplerPDFConverter struct {
	bin    string
	stderr io.Writer
}

func NewPopplerPDFConverter(stderr io.Writer) *PopplerPDFConverter {
	return &PopplerPDFConverter{bin: "pdftoppm", stderr: stderr}
}

// ConvertToImages renders every page of the PDF at path to JPEG, in page order.
func (c *PopplerPDFConverter) ConvertToImages(ctx context.Context, path string) ([]PDFPage, error) {
	// уникальный temp-dir на вызов
	tmpDir, err := os.MkdirTemp("", "pdfconv-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	outBase := filepath.Join(tmpDir, "page")

	cmd := exec.CommandContext(ctx, c.bin,
		"-jpeg",
		"-r", strconv.Itoa(renderDPI),
		path,
		outBase,
	)
	cmd.Stdout = c.stderr
	cmd.Stderr = c.stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w", err)
	}

	// page-1.jpg ... или page-01.jpg при 10+ страницах, ширина одинаковая
	files, err := filepath.Glob(outBase + "-*.jpg")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	pages := make([]PDFPage, 0, len(files))
	for _, fn := range files {
		b, err := os.ReadFile(fn)
		if err != nil {
			return nil, err
		}
		pages = append(pages, PDFPage{
			Bytes:    b,
			FileName: filepath.Base(fn),
			MimeType: "image/jpeg",
		})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages generated")
	}
	return pages, nil
}

// IsPDF sniffs the file header.
func IsPDF(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, len(magic))
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return bytes.Equal(head[:n], magic), nil
}
