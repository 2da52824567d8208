package speech

import (
	"context"
	"math"
	"os"
	"unicode"

	"github.com/Vovarama1992/sinhala_workers/internal/wavfile"
)

const (
	StubSampleRate = 16000

	stubToneSeconds = 0.12
	stubAmplitude   = 8000
)

// StubSTT returns fixed text for any existing file.
type StubSTT struct {
	text string
}

func NewStubSTT(text string) *StubSTT {
	return &StubSTT{text: text}
}

func (c *StubSTT) Transcribe(_ context.Context, filePath string) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", err
	}
	return c.text, nil
}

// StubTTS writes a deterministic 16 kHz tone sequence, one short tone per
// rune and silence for whitespace.
type StubTTS struct{}

func NewStubTTS() *StubTTS {
	return &StubTTS{}
}

func (c *StubTTS) Synthesize(_ context.Context, text, outPath string) error {
	return wavfile.Write(outPath, StubSamples(text), StubSampleRate, 1)
}

func StubSamples(text string) []int {
	perRune := int(stubToneSeconds * StubSampleRate)
	var samples []int
	for _, r := range text {
		tone := make([]int, perRune)
		if !unicode.IsSpace(r) {
			freq := 220 + float64(r%24)*20
			for i := range tone {
				tone[i] = int(stubAmplitude * math.Sin(2*math.Pi*freq*float64(i)/StubSampleRate))
			}
		}
		samples = append(samples, tone...)
	}
	return samples
}
