package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Vovarama1992/sinhala_workers/internal/config"
	"github.com/Vovarama1992/sinhala_workers/internal/wavfile"
)

const (
	elevenLabsFormat     = "pcm_16000"
	elevenLabsSampleRate = 16000
	elevenLabsModel      = "eleven_multilingual_v2"
)

type ElevenLabsClient struct {
	apiKey   string
	endpoint string
	voiceID  string
	model    string
	httpCli  *http.Client
}

func NewElevenLabsClient(cfg config.ElevenLabs, model, voiceID string) (*ElevenLabsClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ELEVENLABS_API_KEY not set")
	}
	if voiceID == "" {
		voiceID = cfg.VoiceID
	}
	if model == "" {
		model = elevenLabsModel
	}

	return &ElevenLabsClient{
		apiKey:   cfg.APIKey,
		endpoint: cfg.URL,
		voiceID:  voiceID,
		model:    model,
		httpCli:  &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// TEXT → SPEECH: raw 16 kHz PCM, wrapped into a WAV at outPath
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, outPath string) error {
	u := fmt.Sprintf("%s/%s?output_format=%s", c.endpoint, url.PathEscape(c.voiceID), elevenLabsFormat)

	payload, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": c.model,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/pcm")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("elevenlabs error: %d %s", resp.StatusCode, string(b))
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read elevenlabs audio: %w", err)
	}
	if len(pcm) == 0 {
		return ErrEmptyAudio
	}

	return wavfile.Write(outPath, wavfile.DecodePCM16LE(pcm), elevenLabsSampleRate, 1)
}
