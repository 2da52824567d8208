package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/multierr"

	"github.com/Vovarama1992/sinhala_workers/internal/config"
)

const (
	DefaultVisionModel = openai.GPT4oMini
	DefaultSpeechModel = string(openai.TTSModel1)
	DefaultSpeechVoice = string(openai.VoiceAlloy)

	httpTimeout = 120 * time.Second

	ocrPrompt = "Transcribe all text in this image exactly as written, keeping the original script. " +
		"Reply with the text only, without comments or translation."
)

var ErrNoChoices = errors.New("openai returned no choices")

type OpenAIOptions struct {
	VisionModel string
	Language    string
	SpeechModel string
	Voice       string
}

type OpenAIClient struct {
	client *openai.Client
	opts   OpenAIOptions
}

func NewOpenAIClient(cfg config.OpenAI, opts OpenAIOptions) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: httpTimeout}

	if opts.VisionModel == "" {
		opts.VisionModel = DefaultVisionModel
	}
	if opts.SpeechModel == "" {
		opts.SpeechModel = DefaultSpeechModel
	}
	if opts.Voice == "" {
		opts.Voice = DefaultSpeechVoice
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(oc),
		opts:   opts,
	}, nil
}

// ReadImageText — картинка (JPEG) → текст через vision-модель
func (c *OpenAIClient) ReadImageText(ctx context.Context, jpeg []byte) (string, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.opts.VisionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: ocrPrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai vision: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Transcribe — голос → текст (Whisper)
func (c *OpenAIClient) Transcribe(ctx context.Context, filePath string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filePath,
		Language: c.opts.Language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}
	return resp.Text, nil
}

// Synthesize — текст → голос, сохраняет WAV в outPath
func (c *OpenAIClient) Synthesize(ctx context.Context, text, outPath string) (err error) {
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.opts.SpeechModel),
		Input:          text,
		Voice:          openai.SpeechVoice(c.opts.Voice),
		ResponseFormat: openai.SpeechResponseFormatWav,
	})
	if err != nil {
		return fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	_, err = io.Copy(out, resp)
	return err
}
