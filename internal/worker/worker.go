// Package worker runs one unit of work: parse the argument, pick a device,
// invoke the model and emit exactly one envelope.
package worker

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"github.com/Vovarama1992/sinhala_workers/internal/device"
	"github.com/Vovarama1992/sinhala_workers/internal/envelope"
	"github.com/Vovarama1992/sinhala_workers/internal/request"
)

// Invoker runs the model for one input on the chosen device.
type Invoker interface {
	Invoke(ctx context.Context, input string, dev device.Device) (envelope.Payload, error)
}

// Notifier receives failures after the envelope is written. May be nil.
type Notifier interface {
	Notify(ctx context.Context, worker string, err error, details string)
}

type Worker struct {
	name        string
	failMessage string
	selector    *device.Selector
	invoker     Invoker
	notifier    Notifier
	log         *logger.ZapLogger
}

func New(name, failMessage string, selector *device.Selector, invoker Invoker, notifier Notifier, log *logger.ZapLogger) *Worker {
	return &Worker{
		name:        name,
		failMessage: failMessage,
		selector:    selector,
		invoker:     invoker,
		notifier:    notifier,
		log:         log,
	}
}

// Run executes the unit of work and returns the process exit code.
func (w *Worker) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	enc := envelope.NewEncoder(stdout, stderr)
	id := uuid.NewString()
	start := time.Now()

	payload, err := w.execute(ctx, id, args)
	if err != nil {
		w.log.Log(logger.LogEntry{
			Level:   "error",
			Message: fmt.Sprintf("[%s] %s failed after %d ms", w.name, id, time.Since(start).Milliseconds()),
			Service: w.name,
			Error:   err,
		})
		code := enc.Failure(w.failMessage, err)
		if w.notifier != nil {
			w.notifier.Notify(ctx, w.name, err, "invocation "+id)
		}
		return code
	}

	w.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("[%s] %s done in %d ms", w.name, id, time.Since(start).Milliseconds()),
		Service: w.name,
	})
	return enc.Success(payload, w.failMessage)
}

func (w *Worker) execute(ctx context.Context, id string, args []string) (payload envelope.Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Log(logger.LogEntry{
				Level:   "error",
				Message: fmt.Sprintf("[%s] panic: %v\n%s", w.name, r, debug.Stack()),
				Service: w.name,
			})
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	req, err := request.Parse(args)
	if err != nil {
		return envelope.Payload{}, err
	}

	w.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("[%s] %s input=%s (%d bytes)", w.name, id, fingerprint(req.Input), len(req.Input)),
		Service: w.name,
	})

	dev := w.selector.Select(ctx)
	payload, err = w.invoker.Invoke(ctx, req.Input, dev)
	if err == nil && payload.Empty() {
		err = envelope.ErrEmptyPayload
	}
	return payload, err
}

func fingerprint(s string) string {
	return strconv.FormatUint(xxh3.HashString(s), 16)
}
