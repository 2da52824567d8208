package envelope

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

var ErrEmptyPayload = errors.New("inference produced no output")

// fallbackLine is written when the envelope itself cannot be marshalled.
const fallbackLine = `{"status":"error","message":"failed to encode result"}` + "\n"

// Encoder writes exactly one envelope per process. Calls after the first one
// are ignored and return the exit code of the first.
type Encoder struct {
	stdout  io.Writer
	stderr  io.Writer
	marshal func(v any) ([]byte, error)

	once     sync.Once
	exitCode int
}

func NewEncoder(stdout, stderr io.Writer) *Encoder {
	return &Encoder{stdout: stdout, stderr: stderr, marshal: json.Marshal}
}

// Success emits the success envelope and returns ExitSuccess. An empty payload
// is reported as a failure with the given message.
func (e *Encoder) Success(p Payload, failMessage string) int {
	if p.Empty() {
		return e.Failure(failMessage, ErrEmptyPayload)
	}
	e.once.Do(func() {
		e.exitCode = ExitSuccess
		if !e.write(Envelope{
			Status:     StatusSuccess,
			Text:       p.Text,
			FilePath:   p.FilePath,
			SampleRate: p.SampleRate,
			URL:        p.URL,
		}) {
			e.exitCode = ExitFailure
		}
	})
	return e.exitCode
}

// Failure emits the error envelope, mirrors the failure to stderr and
// returns ExitFailure.
func (e *Encoder) Failure(message string, err error) int {
	e.once.Do(func() {
		e.exitCode = ExitFailure
		details := ""
		if err != nil {
			details = err.Error()
		}
		if message == "" {
			message = "worker failed."
		}

		mirror := details
		if mirror == "" {
			mirror = message
		}
		fmt.Fprintln(e.stderr, strings.TrimSpace(mirror))

		e.write(Envelope{
			Status:  StatusError,
			Message: message,
			Details: details,
		})
	})
	return e.exitCode
}

// write reports false when the literal error line had to be written instead.
func (e *Encoder) write(env Envelope) bool {
	data, err := e.marshal(env)
	if err != nil {
		fmt.Fprintf(e.stderr, "failed to marshal envelope: %v\n", err)
		_, _ = io.WriteString(e.stdout, fallbackLine)
		return false
	}
	data = append(data, '\n')
	_, _ = e.stdout.Write(data)
	return true
}
