package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/Vovarama1992/sinhala_workers/internal/device"
)

// WhisperCppSTT converts the input to 16 kHz mono WAV with ffmpeg and runs
// whisper.cpp on it.
type WhisperCppSTT struct {
	whisperPath string
	modelPath   string
	language    string
	dev         device.Device
	stderr      io.Writer
}

func NewWhisperCppSTT(whisperPath, modelPath, language string, dev device.Device, stderr io.Writer) *WhisperCppSTT {
	if stderr == nil {
		stderr = os.Stderr
	}
	return &WhisperCppSTT{
		whisperPath: whisperPath,
		modelPath:   modelPath,
		language:    language,
		dev:         dev,
		stderr:      stderr,
	}
}

func (c *WhisperCppSTT) Transcribe(ctx context.Context, filePath string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "stt-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	wavPath := filepath.Join(tmpDir, "audio.wav")
	ffCmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", filePath,
		"-y",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		wavPath,
	)
	ffCmd.Stderr = c.stderr
	if err := ffCmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg conversion failed: %w", err)
	}

	wsCmd := exec.CommandContext(ctx, c.whisperPath, c.args(wavPath)...)
	wsCmd.Dir = tmpDir
	// whisper-cli печатает сегменты в stdout, а stdout у нас только под конверт
	wsCmd.Stdout = io.Discard
	wsCmd.Stderr = c.stderr
	if err := wsCmd.Run(); err != nil {
		return "", fmt.Errorf("whisper failed: %w", err)
	}

	// whisper-cli writes to <input>.txt
	txt, err := os.ReadFile(wavPath + ".txt")
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}
	return string(txt), nil
}

func (c *WhisperCppSTT) args(wavPath string) []string {
	args := []string{"-m", c.modelPath, "-f", wavPath, "-otxt", "-nt"}
	if c.language != "" {
		args = append(args, "-l", c.language)
	}
	if c.dev == device.GeneralPurpose {
		args = append(args, "-ng", "-t", strconv.Itoa(device.Threads()))
	}
	return args
}
