package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultOCRModel = "Ransaka/TrOCR-Sinhala"
	DefaultSTTModel = "Lingalingeswaran/whisper-small-sinhala_v3"
	DefaultTTSModel = "Ransaka/VoiceBox-SL-10M"

	DefaultStubText = "ආයුබෝවන්"
)

// Backend identifiers accepted by *_BACKEND variables.
const (
	BackendRunner     = "runner"
	BackendStub       = "stub"
	BackendOpenAI     = "openai"
	BackendDeepgram   = "deepgram"
	BackendElevenLabs = "elevenlabs"
	BackendWhisperCpp = "whispercpp"
)

type Config struct {
	LogLevel string

	// auto | cpu | cuda
	Device string
	// команда локального раннера, аргументы через пробел;
	// пусто = scripts/infer.py рядом с бинарником
	Runner   string
	Python   string
	StubText string

	OCR        OCR
	STT        STT
	TTS        TTS
	OpenAI     OpenAI
	Deepgram   Deepgram
	ElevenLabs ElevenLabs
	S3         S3
	Telegram   Telegram
}

// Model fields are empty unless set; each backend applies its own default.
type OCR struct {
	Backend string
	Model   string
}

type STT struct {
	Backend          string
	Model            string
	Language         string
	FFmpegDir        string
	WhisperPath      string
	WhisperModelPath string
}

type TTS struct {
	Backend   string
	Model     string
	Voice     string
	OutputDir string
}

type OpenAI struct {
	APIKey  string
	BaseURL string
}

type Deepgram struct {
	APIKey string
	URL    string
}

type ElevenLabs struct {
	APIKey  string
	VoiceID string
	URL     string
}

// S3 is optional: an empty Endpoint disables artifact publishing.
type S3 struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Insecure  bool
}

func (s S3) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// Telegram is optional: alerts are sent only when both fields are set.
type Telegram struct {
	BotToken    string
	AdminChatID int64
}

func (t Telegram) Enabled() bool {
	return t.BotToken != "" && t.AdminChatID != 0
}

// Load merges .env from the working directory (if any) into the environment
// and reads the worker configuration from it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	chatID, err := getenvInt64("TELEGRAM_ADMIN_CHAT_ID", 0)
	if err != nil {
		return nil, err
	}

	return &Config{
		LogLevel: getenv("LOG_LEVEL", "info"),
		Device:   strings.ToLower(getenv("WORKER_DEVICE", "auto")),
		Runner:   getenv("INFER_RUNNER", ""),
		Python:   getenv("INFER_PYTHON", "python3"),
		StubText: getenv("STUB_TEXT", DefaultStubText),
		OCR: OCR{
			Backend: strings.ToLower(getenv("OCR_BACKEND", BackendRunner)),
			Model:   os.Getenv("OCR_MODEL"),
		},
		STT: STT{
			Backend:          strings.ToLower(getenv("STT_BACKEND", BackendRunner)),
			Model:            os.Getenv("STT_MODEL"),
			Language:         getenv("STT_LANGUAGE", "si"),
			FFmpegDir:        getenv("FFMPEG_DIR", filepath.Join(cwd, "ffmpeg", "bin")),
			WhisperPath:      getenv("WHISPER_PATH", "whisper-cli"),
			WhisperModelPath: getenv("WHISPER_MODEL_PATH", "models/ggml-small.bin"),
		},
		TTS: TTS{
			Backend:   strings.ToLower(getenv("TTS_BACKEND", BackendRunner)),
			Model:     os.Getenv("TTS_MODEL"),
			Voice:     os.Getenv("TTS_VOICE"),
			OutputDir: os.Getenv("TTS_OUTPUT_DIR"),
		},
		OpenAI: OpenAI{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
		},
		Deepgram: Deepgram{
			APIKey: os.Getenv("DEEPGRAM_API_KEY"),
			URL:    getenv("DEEPGRAM_URL", "https://api.deepgram.com/v1/listen"),
		},
		ElevenLabs: ElevenLabs{
			APIKey:  os.Getenv("ELEVENLABS_API_KEY"),
			VoiceID: getenv("ELEVENLABS_VOICE_ID", "EXAVITQu4vr4xnSDxMaL"),
			URL:     getenv("ELEVENLABS_URL", "https://api.elevenlabs.io/v1/text-to-speech"),
		},
		S3: S3{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
			Insecure:  getenvBool("S3_INSECURE"),
		},
		Telegram: Telegram{
			BotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
			AdminChatID: chatID,
		},
	}, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func getenvInt64(key string, def int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
