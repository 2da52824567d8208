// Package wavfile writes and inspects PCM WAV files produced by TTS backends.
package wavfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"go.uber.org/multierr"
)

var ErrInvalidWAV = errors.New("not a valid WAV file")

const (
	bitDepth      = 16
	formatPCM     = 1
	bytesPerFrame = bitDepth / 8
)

type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// Write stores 16-bit PCM samples (interleaved when channels > 1).
func Write(path string, samples []int, sampleRate, channels int) (err error) {
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("invalid wav format: rate=%d channels=%d", sampleRate, channels)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, formatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	return enc.Close()
}

// DecodePCM16LE turns raw little-endian 16-bit PCM into samples. A trailing
// odd byte is dropped.
func DecodePCM16LE(data []byte) []int {
	samples := make([]int, len(data)/bytesPerFrame)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(data[i*bytesPerFrame:])))
	}
	return samples
}

// Inspect reads the WAV header and reports the audio format. The duration is
// taken from the data chunk, so LIST or other extra chunks do not count.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return Info{}, fmt.Errorf("%s: %w", path, ErrInvalidWAV)
	}
	if err := d.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("%s: %w", path, err)
	}
	bytesPerSec := int64(d.SampleRate) * int64(d.NumChans) * int64(d.BitDepth/8)
	if bytesPerSec == 0 {
		return Info{}, fmt.Errorf("%s: %w", path, ErrInvalidWAV)
	}
	dur := time.Duration(d.PCMLen()) * time.Second / time.Duration(bytesPerSec)

	return Info{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Duration:   dur,
	}, nil
}
