package wavfile

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestWriteInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := make([]int, 16000) // 1s
	for i := range samples {
		samples[i] = (i % 100) * 100
	}

	if err := Write(path, samples, 16000, 1); err != nil {
		t.Fatalf("Write: %v", err)
	}

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.SampleRate != 16000 || info.Channels != 1 || info.BitDepth != 16 {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.Duration != time.Second {
		t.Errorf("duration = %v, want 1s", info.Duration)
	}
}

func TestWriteRejectsBadFormat(t *testing.T) {
	if err := Write(filepath.Join(t.TempDir(), "x.wav"), nil, 0, 1); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestInspectInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.mp3")
	if err := os.WriteFile(path, []byte("ID3\x03\x00 definitely not riff"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Inspect(path); !errors.Is(err, ErrInvalidWAV) {
		t.Errorf("err = %v, want ErrInvalidWAV", err)
	}
	if _, err := Inspect(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecodePCM16LE(t *testing.T) {
	got := DecodePCM16LE([]byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80, 0x7f})
	want := []int{1, -1, -32768}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestInspectIgnoresTrailingChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged.wav")
	if err := Write(path, make([]int, 8000), 16000, 1); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	junk := make([]byte, 8+400)
	copy(junk, "JUNK")
	binary.LittleEndian.PutUint32(junk[4:], 400)
	data = append(data, junk...)
	binary.LittleEndian.PutUint32(data[4:], uint32(len(data)-8))
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.Duration != 500*time.Millisecond {
		t.Errorf("duration = %v, want 500ms", info.Duration)
	}
}
