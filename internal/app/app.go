// Package app wires configuration, logging and the backends of one worker
// binary and runs a single unit of work.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Vovarama1992/sinhala_workers/internal/config"
	"github.com/Vovarama1992/sinhala_workers/internal/device"
	"github.com/Vovarama1992/sinhala_workers/internal/domain"
	"github.com/Vovarama1992/sinhala_workers/internal/envelope"
	"github.com/Vovarama1992/sinhala_workers/internal/error_notificator"
	"github.com/Vovarama1992/sinhala_workers/internal/infra"
	"github.com/Vovarama1992/sinhala_workers/internal/ocr"
	"github.com/Vovarama1992/sinhala_workers/internal/ports"
	"github.com/Vovarama1992/sinhala_workers/internal/speech"
	"github.com/Vovarama1992/sinhala_workers/internal/worker"
)

type Kind string

const (
	KindOCR        Kind = "ocr"
	KindTranscribe Kind = "transcribe"
	KindTTS        Kind = "tts"
)

// FailMessage is the human readable message of the error envelope.
func (k Kind) FailMessage() string {
	switch k {
	case KindOCR:
		return "OCR failed."
	case KindTranscribe:
		return "Transcription failed."
	case KindTTS:
		return "TTS failed."
	default:
		return "worker failed."
	}
}

// Run executes one invocation of the given worker and returns the exit code.
// args must not include the program name.
func Run(kind Kind, args []string, stdout, stderr io.Writer) int {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return envelope.NewEncoder(stdout, stderr).Failure(kind.FailMessage(), fmt.Errorf("config: %w", err))
	}

	baseLogger := newLogger(cfg.LogLevel, stderr)
	defer func() { _ = baseLogger.Sync() }()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	notifier := newNotifier(cfg, zl)

	inv, err := newInvoker(ctx, kind, cfg, stderr, zl)
	if err != nil {
		code := envelope.NewEncoder(stdout, stderr).Failure(kind.FailMessage(), err)
		notifier.Notify(ctx, string(kind), err, "wiring")
		return code
	}

	selector := device.NewSelector(cfg.Device, device.NewNvidiaProbe(), zl)

	return worker.New(string(kind), kind.FailMessage(), selector, inv, notifier, zl).
		Run(ctx, args, stdout, stderr)
}

func newInvoker(ctx context.Context, kind Kind, cfg *config.Config, stderr io.Writer, zl *logger.ZapLogger) (worker.Invoker, error) {
	switch kind {
	case KindOCR:
		return ocr.NewInvoker(cfg, stderr, zl), nil
	case KindTranscribe:
		return speech.NewTranscribeInvoker(cfg, stderr, zl), nil
	case KindTTS:
		publisher, err := newPublisher(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return speech.NewSynthesizeInvoker(cfg, stderr, publisher, zl), nil
	default:
		return nil, fmt.Errorf("unknown worker %q", kind)
	}
}

func newPublisher(ctx context.Context, cfg config.S3) (ports.S3Service, error) {
	client, err := infra.NewS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	return domain.NewS3Service(client), nil
}

// Alerts are best effort; the bot is only contacted on failure.
func newNotifier(cfg *config.Config, zl *logger.ZapLogger) *error_notificator.Service {
	if !cfg.Telegram.Enabled() {
		return error_notificator.NewService(nil, zl)
	}
	return error_notificator.NewService(error_notificator.NewInfra(cfg.Telegram), zl)
}

// stdout принадлежит конверту, поэтому логи только в stderr
func newLogger(level string, stderr io.Writer) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(stderr),
		zap.NewAtomicLevelAt(lvl),
	)
	return zap.New(core)
}
