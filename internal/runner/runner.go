// Package runner talks to the local inference runner: an external program that
// loads a pretrained pipeline, performs one forward pass and prints a JSON
// result as its last stdout line.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	json "github.com/goccy/go-json"

	"github.com/Vovarama1992/sinhala_workers/internal/artifact"
	"github.com/Vovarama1992/sinhala_workers/internal/device"
)

var ErrNoResult = errors.New("runner printed no result")

const (
	// DefaultScript is the bundled runner, looked up next to the worker binary.
	DefaultScript = "scripts/infer.py"
	DefaultPython = "python3"

	ompThreadsVar = "OMP_NUM_THREADS"
	stderrTail    = 4 << 10
)

// Task names understood by the runner.
const (
	TaskOCR        = "ocr"
	TaskTranscribe = "transcribe"
	TaskTTS        = "tts"
)

type Task struct {
	Name     string
	Model    string
	Device   device.Device
	Input    string
	Output   string
	Language string
}

type Result struct {
	Text       string `json:"text"`
	SampleRate int    `json:"sampleRate"`
	Error      string `json:"error"`
}

type Runner struct {
	command []string
	stderr  io.Writer
	log     *logger.ZapLogger
}

// New splits command on whitespace: the first field is the executable, the
// rest are prepended to every invocation.
func New(command string, stderr io.Writer, log *logger.ZapLogger) (*Runner, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("runner command is empty")
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Runner{command: fields, stderr: stderr, log: log}, nil
}

// Open returns the runner configured by command (INFER_RUNNER). A blank
// command means the bundled script beside the executable, run by python.
func Open(command, python string, stderr io.Writer, log *logger.ZapLogger) (*Runner, error) {
	if strings.TrimSpace(command) != "" {
		return New(command, stderr, log)
	}
	dir, err := artifact.ExecutableDir()
	if err != nil {
		return nil, err
	}
	return bundled(dir, python, stderr, log)
}

func bundled(dir, python string, stderr io.Writer, log *logger.ZapLogger) (*Runner, error) {
	script := filepath.Join(dir, filepath.FromSlash(DefaultScript))
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("inference runner: %w (set INFER_RUNNER or install %s next to the worker)", err, DefaultScript)
	}
	if python == "" {
		python = DefaultPython
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Runner{command: []string{python, script}, stderr: stderr, log: log}, nil
}

func (r *Runner) Run(ctx context.Context, t Task) (Result, error) {
	args := append(append([]string{}, r.command[1:]...), buildArgs(t)...)

	cmd := exec.CommandContext(ctx, r.command[0], args...)
	cmd.Env = buildEnv(os.Environ(), t.Device)
	var out bytes.Buffer
	tail := &tailBuffer{max: stderrTail}
	cmd.Stdout = &out
	cmd.Stderr = io.MultiWriter(r.stderr, tail)

	r.log.Log(logger.LogEntry{
		Level:   "debug",
		Message: fmt.Sprintf("[runner] %s model=%s device=%s", t.Name, t.Model, t.Device.Target()),
		Service: "runner",
	})

	start := time.Now()
	runErr := cmd.Run()
	res, parseErr := parseResult(out.Bytes())

	if runErr != nil {
		// раннер мог успеть напечатать свою ошибку перед выходом
		if parseErr == nil && res.Error != "" {
			return Result{}, fmt.Errorf("%s runner: %s", t.Name, res.Error)
		}
		return Result{}, withTail(fmt.Errorf("%s runner: %w", t.Name, runErr), tail)
	}
	if parseErr != nil {
		return Result{}, withTail(fmt.Errorf("%s runner: %w", t.Name, parseErr), tail)
	}
	if res.Error != "" {
		return Result{}, fmt.Errorf("%s runner: %s", t.Name, res.Error)
	}

	r.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("[runner] %s done in %d ms", t.Name, time.Since(start).Milliseconds()),
		Service: "runner",
	})
	return res, nil
}

func buildArgs(t Task) []string {
	args := []string{
		t.Name,
		"--model", t.Model,
		"--device", t.Device.Target(),
		"--input", t.Input,
	}
	if t.Output != "" {
		args = append(args, "--output", t.Output)
	}
	if t.Language != "" {
		args = append(args, "--language", t.Language)
	}
	return args
}

// buildEnv pins OMP_NUM_THREADS on CPU unless the operator already set it.
func buildEnv(base []string, d device.Device) []string {
	env := append([]string{}, base...)
	if d != device.GeneralPurpose {
		return env
	}
	for _, kv := range base {
		if strings.HasPrefix(kv, ompThreadsVar+"=") {
			return env
		}
	}
	return append(env, ompThreadsVar+"="+strconv.Itoa(device.Threads()))
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
	return len(p), nil
}

func (t *tailBuffer) lastLine() string {
	lines := strings.Split(strings.TrimSpace(string(t.buf)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// withTail appends the runner's last stderr line (a Python traceback ends
// with the exception) to err.
func withTail(err error, tail *tailBuffer) error {
	if line := tail.lastLine(); line != "" {
		return fmt.Errorf("%w: %s", err, line)
	}
	return err
}

// parseResult decodes the last non-empty line; anything printed before it is
// runner chatter.
func parseResult(out []byte) (Result, error) {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return Result{}, ErrNoResult
	}
	var res Result
	if err := json.Unmarshal([]byte(last), &res); err != nil {
		return Result{}, fmt.Errorf("decode runner output: %w", err)
	}
	return res, nil
}
