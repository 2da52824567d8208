// Package device decides once per process where the inference call runs.
package device

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/go-utils/logger"
)

type Device int

const (
	GeneralPurpose Device = iota
	Accelerated
)

func (d Device) String() string {
	if d == Accelerated {
		return "accelerated"
	}
	return "general-purpose"
}

// Target is the device string handed to inference runners.
func (d Device) Target() string {
	if d == Accelerated {
		return "cuda:0"
	}
	return "cpu"
}

const (
	ModeAuto = "auto"
	ModeCPU  = "cpu"
	ModeCUDA = "cuda"
)

// Probe reports whether an accelerator can be used right now.
type Probe interface {
	AcceleratorAvailable(ctx context.Context) bool
}

type Selector struct {
	mode  string
	probe Probe
	log   *logger.ZapLogger
}

func NewSelector(mode string, probe Probe, log *logger.ZapLogger) *Selector {
	return &Selector{mode: mode, probe: probe, log: log}
}

// Select never fails: a missing accelerator resolves to GeneralPurpose.
func (s *Selector) Select(ctx context.Context) Device {
	d := s.resolve(ctx)
	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("device selected: %s (%s), cpu: %s", d, d.Target(), DescribeCPU()),
		Service: "device",
	})
	return d
}

func (s *Selector) resolve(ctx context.Context) Device {
	switch s.mode {
	case ModeCPU:
		return GeneralPurpose
	case ModeAuto, ModeCUDA, "":
	default:
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: fmt.Sprintf("unknown device mode %q, probing", s.mode),
			Service: "device",
		})
	}

	if s.probe != nil && s.probe.AcceleratorAvailable(ctx) {
		return Accelerated
	}
	if s.mode == ModeCUDA {
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "cuda requested but no accelerator found, falling back to cpu",
			Service: "device",
		})
	}
	return GeneralPurpose
}
