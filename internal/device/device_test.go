package device

import (
	"context"
	"errors"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/zap"
)

type fakeProbe struct {
	available bool
	calls     int
}

func (f *fakeProbe) AcceleratorAvailable(context.Context) bool {
	f.calls++
	return f.available
}

func nopLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

func TestSelector(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		available bool
		want      Device
		probed    bool
	}{
		{name: "auto with gpu", mode: ModeAuto, available: true, want: Accelerated, probed: true},
		{name: "auto without gpu", mode: ModeAuto, available: false, want: GeneralPurpose, probed: true},
		{name: "cpu forced", mode: ModeCPU, available: true, want: GeneralPurpose, probed: false},
		{name: "cuda with gpu", mode: ModeCUDA, available: true, want: Accelerated, probed: true},
		{name: "cuda falls back", mode: ModeCUDA, available: false, want: GeneralPurpose, probed: true},
		{name: "unknown mode probes", mode: "tpu", available: true, want: Accelerated, probed: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			probe := &fakeProbe{available: tc.available}
			got := NewSelector(tc.mode, probe, nopLogger()).Select(context.Background())
			if got != tc.want {
				t.Errorf("Select() = %s, want %s", got, tc.want)
			}
			if (probe.calls > 0) != tc.probed {
				t.Errorf("probe calls = %d, probed want %t", probe.calls, tc.probed)
			}
		})
	}
}

func TestSelectorNilProbe(t *testing.T) {
	if got := NewSelector(ModeAuto, nil, nopLogger()).Select(context.Background()); got != GeneralPurpose {
		t.Errorf("Select() = %s, want %s", got, GeneralPurpose)
	}
}

func TestDeviceTarget(t *testing.T) {
	if Accelerated.Target() != "cuda:0" {
		t.Errorf("accelerated target = %q", Accelerated.Target())
	}
	if GeneralPurpose.Target() != "cpu" {
		t.Errorf("general-purpose target = %q", GeneralPurpose.Target())
	}
}

func TestNvidiaProbe(t *testing.T) {
	found := func(string) (string, error) { return "/usr/bin/nvidia-smi", nil }
	missing := func(string) (string, error) { return "", errors.New("not found") }

	tests := []struct {
		name     string
		env      map[string]string
		lookPath func(string) (string, error)
		out      string
		outErr   error
		want     bool
	}{
		{name: "gpu listed", lookPath: found, out: "GPU 0: NVIDIA A10G (UUID: GPU-1)\n", want: true},
		{name: "no gpu lines", lookPath: found, out: "No devices found.\n", want: false},
		{name: "nvidia-smi fails", lookPath: found, outErr: errors.New("exit status 9"), want: false},
		{name: "nvidia-smi missing", lookPath: missing, want: false},
		{name: "hidden by env", env: map[string]string{"CUDA_VISIBLE_DEVICES": "-1"}, lookPath: found, out: "GPU 0: x\n", want: false},
		{name: "empty env hides", env: map[string]string{"CUDA_VISIBLE_DEVICES": ""}, lookPath: found, out: "GPU 0: x\n", want: false},
		{name: "env selects device", env: map[string]string{"CUDA_VISIBLE_DEVICES": "0"}, lookPath: found, out: "GPU 0: x\n", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &NvidiaProbe{
				lookPath: tc.lookPath,
				output: func(context.Context, string, ...string) ([]byte, error) {
					return []byte(tc.out), tc.outErr
				},
				lookupEnv: func(key string) (string, bool) {
					v, ok := tc.env[key]
					return v, ok
				},
			}
			if got := p.AcceleratorAvailable(context.Background()); got != tc.want {
				t.Errorf("AcceleratorAvailable() = %t, want %t", got, tc.want)
			}
		})
	}
}

func TestThreads(t *testing.T) {
	if Threads() < 1 {
		t.Errorf("Threads() = %d, want >= 1", Threads())
	}
	if DescribeCPU() == "" {
		t.Error("DescribeCPU() must not be empty")
	}
}
