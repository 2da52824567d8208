package ocr

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/Vovarama1992/sinhala_workers/internal/config"
	"github.com/Vovarama1992/sinhala_workers/internal/device"
	"github.com/Vovarama1992/sinhala_workers/internal/runner"
)

// RunnerRecognizer hands the normalised image to the local inference runner
// (TrOCR by default).
type RunnerRecognizer struct {
	runner *runner.Runner
	model  string
	dev    device.Device
}

func NewRunnerRecognizer(r *runner.Runner, model string, dev device.Device) *RunnerRecognizer {
	if model == "" {
		model = config.DefaultOCRModel
	}
	return &RunnerRecognizer{runner: r, model: model, dev: dev}
}

func (c *RunnerRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	data, err := EncodeJPEG(img)
	if err != nil {
		return "", err
	}

	// уникальный temp-dir, подчистим потом
	tmpDir, err := os.MkdirTemp("", "ocr-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	input := filepath.Join(tmpDir, "page.jpg")
	if err := os.WriteFile(input, data, 0644); err != nil {
		return "", err
	}

	res, err := c.runner.Run(ctx, runner.Task{
		Name:   runner.TaskOCR,
		Model:  c.model,
		Device: c.dev,
		Input:  input,
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
