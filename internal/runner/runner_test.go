package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/zap"

	"github.com/Vovarama1992/sinhala_workers/internal/device"
)

func nopLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell runner scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "runner.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    Result
		wantErr bool
	}{
		{name: "single line", out: `{"text":"hello"}`, want: Result{Text: "hello"}},
		{name: "chatter before result", out: "loading model...\nDevice set to cpu\n{\"text\":\"ok\",\"sampleRate\":16000}\n\n", want: Result{Text: "ok", SampleRate: 16000}},
		{name: "runner error", out: `{"error":"CUDA out of memory"}`, want: Result{Error: "CUDA out of memory"}},
		{name: "empty", out: "  \n", wantErr: true},
		{name: "not json", out: "Traceback (most recent call last):", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseResult([]byte(tc.out))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %t", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs(Task{
		Name:   TaskTTS,
		Model:  "m",
		Device: device.Accelerated,
		Input:  "text",
		Output: "/tmp/out.wav",
	})
	want := []string{"tts", "--model", "m", "--device", "cuda:0", "--input", "text", "--output", "/tmp/out.wav"}
	if !slices.Equal(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestBuildEnvPinsThreadsOnCPU(t *testing.T) {
	env := buildEnv([]string{"A=1"}, device.GeneralPurpose)
	if len(env) != 2 || !strings.HasPrefix(env[1], "OMP_NUM_THREADS=") {
		t.Errorf("unexpected env: %v", env)
	}
	if env := buildEnv([]string{"A=1"}, device.Accelerated); len(env) != 1 {
		t.Errorf("accelerated env must not pin threads: %v", env)
	}
}

func TestBuildEnvKeepsOperatorThreads(t *testing.T) {
	base := []string{"A=1", "OMP_NUM_THREADS=3"}
	env := buildEnv(base, device.GeneralPurpose)
	if !slices.Equal(env, base) {
		t.Errorf("env = %v, want operator value untouched", env)
	}
}

func TestBundled(t *testing.T) {
	dir := t.TempDir()
	if _, err := bundled(dir, "", nil, nopLogger()); err == nil || !strings.Contains(err.Error(), DefaultScript) {
		t.Fatalf("expected missing script error, got %v", err)
	}

	script := filepath.Join(dir, filepath.FromSlash(DefaultScript))
	if err := os.MkdirAll(filepath.Dir(script), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(script, []byte("print()"), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := bundled(dir, "", nil, nopLogger())
	if err != nil {
		t.Fatalf("bundled: %v", err)
	}
	if !slices.Equal(r.command, []string{DefaultPython, script}) {
		t.Errorf("command = %v", r.command)
	}
}

func TestOpenUsesConfiguredCommand(t *testing.T) {
	r, err := Open("python3 -u /srv/infer.py", "ignored", nil, nopLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !slices.Equal(r.command, []string{"python3", "-u", "/srv/infer.py"}) {
		t.Errorf("command = %v", r.command)
	}
}

func TestNewRejectsEmptyCommand(t *testing.T) {
	if _, err := New("   ", nil, nopLogger()); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestRun(t *testing.T) {
	script := writeScript(t, `echo "warming up"
echo "{\"text\":\"$1|$3|$5|$7\"}"
`)
	r, err := New(script, &bytes.Buffer{}, nopLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := r.Run(context.Background(), Task{Name: TaskOCR, Model: "trocr", Device: device.GeneralPurpose, Input: "/img.png"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Text != "ocr|trocr|cpu|/img.png" {
		t.Errorf("text = %q", res.Text)
	}
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "structured error exit 0", body: `echo '{"error":"weights missing"}'`, wantMsg: "weights missing"},
		{name: "structured error exit 1", body: "echo '{\"error\":\"bad image\"}'\nexit 1", wantMsg: "bad image"},
		{name: "crash without output", body: "echo oops >&2\nexit 3", wantMsg: "exit status 3: oops"},
		{name: "traceback tail", body: "echo 'Traceback (most recent call last):' >&2\necho \"ModuleNotFoundError: No module named 'torch'\" >&2\nexit 1", wantMsg: "No module named 'torch'"},
		{name: "no result", body: "true", wantMsg: ErrNoResult.Error()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stderr bytes.Buffer
			r, err := New(writeScript(t, tc.body), &stderr, nopLogger())
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			_, err = r.Run(context.Background(), Task{Name: TaskTranscribe, Model: "m", Input: "a.wav"})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestRunPassesStderrThrough(t *testing.T) {
	var stderr bytes.Buffer
	r, err := New(writeScript(t, "echo 'Device set to use cpu' >&2\necho '{\"text\":\"ok\"}'"), &stderr, nopLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Run(context.Background(), Task{Name: TaskOCR}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(stderr.String(), "Device set to use cpu") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestTailBufferKeepsLastBytes(t *testing.T) {
	tail := &tailBuffer{max: 8}
	_, _ = tail.Write([]byte("first line\n"))
	_, _ = tail.Write([]byte("x\nlast\n"))
	if got := tail.lastLine(); got != "last" {
		t.Errorf("lastLine = %q", got)
	}
	if len(tail.buf) > 8 {
		t.Errorf("buffer grew to %d bytes", len(tail.buf))
	}
}

func TestRunMissingExecutable(t *testing.T) {
	r, err := New(filepath.Join(t.TempDir(), "nope"), nil, nopLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = r.Run(context.Background(), Task{Name: TaskOCR})
	if err == nil {
		t.Fatal("expected error")
	}
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) && !strings.Contains(err.Error(), "no such file") {
		t.Errorf("unexpected error: %v", err)
	}
}
