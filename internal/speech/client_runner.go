package speech

import (
	"context"

	"github.com/Vovarama1992/sinhala_workers/internal/config"
	"github.com/Vovarama1992/sinhala_workers/internal/device"
	"github.com/Vovarama1992/sinhala_workers/internal/runner"
)

// RunnerSTT runs the speech-recognition pipeline in the local inference runner.
type RunnerSTT struct {
	runner   *runner.Runner
	model    string
	language string
	dev      device.Device
}

func NewRunnerSTT(r *runner.Runner, model, language string, dev device.Device) *RunnerSTT {
	if model == "" {
		model = config.DefaultSTTModel
	}
	return &RunnerSTT{runner: r, model: model, language: language, dev: dev}
}

func (c *RunnerSTT) Transcribe(ctx context.Context, filePath string) (string, error) {
	res, err := c.runner.Run(ctx, runner.Task{
		Name:     runner.TaskTranscribe,
		Model:    c.model,
		Device:   c.dev,
		Input:    filePath,
		Language: c.language,
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// RunnerTTS runs the text-to-speech pipeline; the runner writes the WAV itself.
type RunnerTTS struct {
	runner *runner.Runner
	model  string
	dev    device.Device
}

func NewRunnerTTS(r *runner.Runner, model string, dev device.Device) *RunnerTTS {
	if model == "" {
		model = config.DefaultTTSModel
	}
	return &RunnerTTS{runner: r, model: model, dev: dev}
}

func (c *RunnerTTS) Synthesize(ctx context.Context, text, outPath string) error {
	_, err := c.runner.Run(ctx, runner.Task{
		Name:   runner.TaskTTS,
		Model:  c.model,
		Device: c.dev,
		Input:  text,
		Output: outPath,
	})
	return err
}
