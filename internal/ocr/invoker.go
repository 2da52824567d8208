package ocr

import (
	"context"
	"fmt"
	"io"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/sinhala_workers/internal/ai"
	"github.com/Vovarama1992/sinhala_workers/internal/config"
	"github.com/Vovarama1992/sinhala_workers/internal/device"
	"github.com/Vovarama1992/sinhala_workers/internal/envelope"
	"github.com/Vovarama1992/sinhala_workers/internal/pdf"
	"github.com/Vovarama1992/sinhala_workers/internal/runner"
)

// Invoker builds the configured OCR backend for the selected device and runs
// it once against an image path.
type Invoker struct {
	cfg    *config.Config
	stderr io.Writer
	log    *logger.ZapLogger
}

func NewInvoker(cfg *config.Config, stderr io.Writer, log *logger.ZapLogger) *Invoker {
	return &Invoker{cfg: cfg, stderr: stderr, log: log}
}

func (i *Invoker) Invoke(ctx context.Context, imagePath string, dev device.Device) (envelope.Payload, error) {
	rec, err := i.recognizer(dev)
	if err != nil {
		return envelope.Payload{}, err
	}
	text, err := NewService(rec, pdf.NewPopplerPDFConverter(i.stderr), i.log).Recognize(ctx, imagePath)
	if err != nil {
		return envelope.Payload{}, err
	}
	return envelope.TextPayload(text), nil
}

func (i *Invoker) recognizer(dev device.Device) (Recognizer, error) {
	switch i.cfg.OCR.Backend {
	case config.BackendRunner, "":
		r, err := runner.Open(i.cfg.Runner, i.cfg.Python, i.stderr, i.log)
		if err != nil {
			return nil, err
		}
		return NewRunnerRecognizer(r, i.cfg.OCR.Model, dev), nil
	case config.BackendOpenAI:
		client, err := ai.NewOpenAIClient(i.cfg.OpenAI, ai.OpenAIOptions{VisionModel: i.cfg.OCR.Model})
		if err != nil {
			return nil, err
		}
		return NewOpenAIRecognizer(client), nil
	case config.BackendStub:
		return NewStubRecognizer(i.cfg.StubText), nil
	default:
		return nil, fmt.Errorf("unknown OCR backend %q (supported: runner, openai, stub)", i.cfg.OCR.Backend)
	}
}
