// Package envelope implements the one-line JSON result record every worker
// prints to stdout before it exits.
package envelope

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Exit codes of a worker process.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Envelope is the wire form. Text is a pointer so an empty recognition result
// is still serialised as "text":"".
type Envelope struct {
	Status     Status  `json:"status"`
	Text       *string `json:"text,omitempty"`
	FilePath   string  `json:"filePath,omitempty"`
	SampleRate int     `json:"sampleRate,omitempty"`
	URL        string  `json:"url,omitempty"`
	Message    string  `json:"message,omitempty"`
	Details    string  `json:"details,omitempty"`
}

// Payload is what a successful inference hands to the encoder.
type Payload struct {
	Text       *string
	FilePath   string
	SampleRate int
	URL        string
}

func TextPayload(text string) Payload {
	return Payload{Text: &text}
}

func FilePayload(path string, sampleRate int) Payload {
	return Payload{FilePath: path, SampleRate: sampleRate}
}

// Empty reports whether the payload carries neither text nor a file.
func (p Payload) Empty() bool {
	return p.Text == nil && p.FilePath == ""
}
