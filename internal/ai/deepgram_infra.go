package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/Vovarama1992/sinhala_workers/internal/config"
)

var ErrEmptyTranscript = errors.New("empty transcript")

type DeepgramClient struct {
	apiKey   string
	endpoint string
	model    string
	language string
	client   *http.Client
}

func NewDeepgramClient(cfg config.Deepgram, model, language string) (*DeepgramClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("DEEPGRAM_API_KEY not set")
	}
	if model == "" {
		model = "nova-2"
	}

	return &DeepgramClient{
		apiKey:   cfg.APIKey,
		endpoint: cfg.URL,
		model:    model,
		language: language,
		client:   &http.Client{Timeout: httpTimeout},
	}, nil
}

func (c *DeepgramClient) Transcribe(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("model", c.model)
	q.Set("smart_format", "true")
	if c.language != "" {
		q.Set("language", c.language)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint+"?"+q.Encode(),
		f,
	)
	if err != nil {
		return "", err
	}
	req.ContentLength = st.Size()

	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", audioContentType(filePath))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepgram request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepgram error: %d %s", resp.StatusCode, body)
	}

	var parsed struct {
		Results struct {
			Channels []struct {
				Alternatives []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}

	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode deepgram: %w", err)
	}

	if len(parsed.Results.Channels) == 0 ||
		len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", ErrEmptyTranscript
	}

	return parsed.Results.Channels[0].Alternatives[0].Transcript, nil
}

func audioContentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
