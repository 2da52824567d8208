package domain

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Vovarama1992/sinhala_workers/internal/ports"
)

type s3Service struct {
	client ports.S3Client
	now    func() time.Time
}

func NewS3Service(client ports.S3Client) ports.S3Service {
	return &s3Service{client: client, now: time.Now}
}

// ObjectKey — путь в бакете
func (s *s3Service) ObjectKey(kind, filename string) string {
	date := s.now().UTC().Format("2006-01-02")
	clean := filepath.Base(filename)
	return fmt.Sprintf("%s/%s/%s", kind, date, clean)
}

// Publish uploads a local artifact; the key prefix is taken from the file
// name (tts_... -> tts/).
func (s *s3Service) Publish(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return "", err
	}

	name := filepath.Base(path)
	kind, _, ok := strings.Cut(name, "_")
	if !ok {
		kind = "artifacts"
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if filepath.Ext(name) == ".wav" {
		contentType = "audio/wav"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return s.client.PutObject(ctx, s.ObjectKey(kind, name), f, st.Size(), contentType)
}
