package device

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

const probeTimeout = 5 * time.Second

// NvidiaProbe asks nvidia-smi for visible GPUs.
type NvidiaProbe struct {
	lookPath  func(file string) (string, error)
	output    func(ctx context.Context, name string, args ...string) ([]byte, error)
	lookupEnv func(key string) (string, bool)
}

func NewNvidiaProbe() *NvidiaProbe {
	return &NvidiaProbe{
		lookPath: exec.LookPath,
		output: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
		lookupEnv: os.LookupEnv,
	}
}

func (p *NvidiaProbe) AcceleratorAvailable(ctx context.Context) bool {
	// CUDA_VISIBLE_DEVICES="" или "-1" — ускоритель явно выключен
	if v, ok := p.lookupEnv("CUDA_VISIBLE_DEVICES"); ok {
		v = strings.TrimSpace(v)
		if v == "" || v == "-1" {
			return false
		}
	}

	bin, err := p.lookPath("nvidia-smi")
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := p.output(ctx, bin, "-L")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "GPU ") {
			return true
		}
	}
	return false
}
