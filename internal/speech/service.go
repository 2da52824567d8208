package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/unicode/norm"

	"github.com/Vovarama1992/sinhala_workers/internal/artifact"
	"github.com/Vovarama1992/sinhala_workers/internal/wavfile"
)

var ErrEmptyAudio = errors.New("synthesized audio file is empty")

// Artifact is a WAV file written by a TTS backend.
type Artifact struct {
	Path       string
	SampleRate int
	Size       int64
	Duration   time.Duration
}

// === Единый сервис (и для стт и для ттс) ===

type Service struct {
	stt STTClient
	tts TTSClient
	log *logger.ZapLogger
}

func NewService(stt STTClient, tts TTSClient, log *logger.ZapLogger) *Service {
	return &Service{
		stt: stt,
		tts: tts,
		log: log,
	}
}

func (s *Service) Transcribe(ctx context.Context, filePath string) (string, error) {
	if s.stt == nil {
		return "", errors.New("speech-to-text backend not configured")
	}

	if d, err := probeDuration(ctx, filePath); err == nil {
		s.info(fmt.Sprintf("[stt] input duration %s", d.Round(100*time.Millisecond)))
	}

	text, err := s.stt.Transcribe(ctx, filePath)
	if err != nil {
		return "", err
	}
	text = norm.NFC.String(strings.TrimSpace(text))
	s.info(fmt.Sprintf("[stt] transcribed %d chars", len([]rune(text))))
	return text, nil
}

// Synthesize writes the speech for text to a fresh file in outDir and
// reads its format back from the WAV header.
func (s *Service) Synthesize(ctx context.Context, text, outDir string) (Artifact, error) {
	if s.tts == nil {
		return Artifact{}, errors.New("text-to-speech backend not configured")
	}

	outPath, err := artifact.NewPath(outDir, "tts", "wav", time.Now())
	if err != nil {
		return Artifact{}, err
	}

	if err := s.tts.Synthesize(ctx, norm.NFC.String(text), outPath); err != nil {
		_ = os.Remove(outPath)
		return Artifact{}, err
	}

	st, err := os.Stat(outPath)
	if err != nil {
		return Artifact{}, fmt.Errorf("synthesized file missing: %w", err)
	}
	if st.Size() == 0 {
		_ = os.Remove(outPath)
		return Artifact{}, ErrEmptyAudio
	}

	info, err := wavfile.Inspect(outPath)
	if err != nil {
		_ = os.Remove(outPath)
		return Artifact{}, err
	}

	s.info(fmt.Sprintf("[tts] synthesized -> %s (%s, %d Hz, %.2fs)",
		outPath, humanize.Bytes(uint64(st.Size())), info.SampleRate, info.Duration.Seconds()))

	return Artifact{
		Path:       outPath,
		SampleRate: info.SampleRate,
		Size:       st.Size(),
		Duration:   info.Duration,
	}, nil
}

// probeDuration asks ffprobe from the exposed toolset; the result is only logged.
func probeDuration(ctx context.Context, path string) (time.Duration, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	).Output()
	if err != nil {
		return 0, err
	}
	sec, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func (s *Service) info(msg string) {
	s.log.Log(logger.LogEntry{Level: "info", Message: msg, Service: "speech"})
}
