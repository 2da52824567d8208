package speech

import (
	"context"
	"fmt"
	"io"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/sinhala_workers/internal/ai"
	"github.com/Vovarama1992/sinhala_workers/internal/artifact"
	"github.com/Vovarama1992/sinhala_workers/internal/config"
	"github.com/Vovarama1992/sinhala_workers/internal/device"
	"github.com/Vovarama1992/sinhala_workers/internal/envelope"
	"github.com/Vovarama1992/sinhala_workers/internal/ports"
	"github.com/Vovarama1992/sinhala_workers/internal/runner"
)

// TranscribeInvoker builds the configured speech-to-text backend for the
// selected device and runs it once against an audio path.
type TranscribeInvoker struct {
	cfg    *config.Config
	stderr io.Writer
	log    *logger.ZapLogger
}

func NewTranscribeInvoker(cfg *config.Config, stderr io.Writer, log *logger.ZapLogger) *TranscribeInvoker {
	return &TranscribeInvoker{cfg: cfg, stderr: stderr, log: log}
}

func (i *TranscribeInvoker) Invoke(ctx context.Context, audioPath string, dev device.Device) (envelope.Payload, error) {
	if err := ExposeToolset(i.cfg.STT.FFmpegDir); err != nil {
		return envelope.Payload{}, fmt.Errorf("expose ffmpeg: %w", err)
	}

	stt, err := i.backend(dev)
	if err != nil {
		return envelope.Payload{}, err
	}

	text, err := NewService(stt, nil, i.log).Transcribe(ctx, audioPath)
	if err != nil {
		return envelope.Payload{}, err
	}
	return envelope.TextPayload(text), nil
}

func (i *TranscribeInvoker) backend(dev device.Device) (STTClient, error) {
	c := i.cfg.STT
	switch c.Backend {
	case config.BackendRunner, "":
		r, err := runner.Open(i.cfg.Runner, i.cfg.Python, i.stderr, i.log)
		if err != nil {
			return nil, err
		}
		return NewRunnerSTT(r, c.Model, c.Language, dev), nil
	case config.BackendWhisperCpp:
		return NewWhisperCppSTT(c.WhisperPath, c.WhisperModelPath, c.Language, dev, i.stderr), nil
	case config.BackendOpenAI:
		return ai.NewOpenAIClient(i.cfg.OpenAI, ai.OpenAIOptions{Language: c.Language})
	case config.BackendDeepgram:
		return ai.NewDeepgramClient(i.cfg.Deepgram, c.Model, c.Language)
	case config.BackendStub:
		return NewStubSTT(i.cfg.StubText), nil
	default:
		return nil, fmt.Errorf("unknown STT backend %q (supported: runner, whispercpp, openai, deepgram, stub)", c.Backend)
	}
}

// SynthesizeInvoker builds the configured text-to-speech backend and writes
// one uniquely named WAV file per call.
type SynthesizeInvoker struct {
	cfg       *config.Config
	stderr    io.Writer
	publisher ports.S3Service
	log       *logger.ZapLogger
}

// publisher may be nil; then no URL is reported.
func NewSynthesizeInvoker(cfg *config.Config, stderr io.Writer, publisher ports.S3Service, log *logger.ZapLogger) *SynthesizeInvoker {
	return &SynthesizeInvoker{cfg: cfg, stderr: stderr, publisher: publisher, log: log}
}

func (i *SynthesizeInvoker) Invoke(ctx context.Context, text string, dev device.Device) (envelope.Payload, error) {
	outDir := i.cfg.TTS.OutputDir
	if outDir == "" {
		dir, err := artifact.ExecutableDir()
		if err != nil {
			return envelope.Payload{}, err
		}
		outDir = dir
	}

	tts, err := i.backend(dev)
	if err != nil {
		return envelope.Payload{}, err
	}

	art, err := NewService(nil, tts, i.log).Synthesize(ctx, text, outDir)
	if err != nil {
		return envelope.Payload{}, err
	}

	payload := envelope.FilePayload(art.Path, art.SampleRate)
	if i.publisher != nil {
		url, err := i.publisher.Publish(ctx, art.Path)
		if err != nil {
			// файл уже на диске, ссылка необязательна
			i.log.Log(logger.LogEntry{Level: "warn", Message: "[tts] publish failed", Service: "speech", Error: err})
		} else {
			payload.URL = url
		}
	}
	return payload, nil
}

func (i *SynthesizeInvoker) backend(dev device.Device) (TTSClient, error) {
	c := i.cfg.TTS
	switch c.Backend {
	case config.BackendRunner, "":
		r, err := runner.Open(i.cfg.Runner, i.cfg.Python, i.stderr, i.log)
		if err != nil {
			return nil, err
		}
		return NewRunnerTTS(r, c.Model, dev), nil
	case config.BackendOpenAI:
		return ai.NewOpenAIClient(i.cfg.OpenAI, ai.OpenAIOptions{SpeechModel: c.Model, Voice: c.Voice})
	case config.BackendElevenLabs:
		return NewElevenLabsClient(i.cfg.ElevenLabs, c.Model, c.Voice)
	case config.BackendStub:
		return NewStubTTS(), nil
	default:
		return nil, fmt.Errorf("unknown TTS backend %q (supported: runner, openai, elevenlabs, stub)", c.Backend)
	}
}
