package request

import "errors"

var ErrMissingArgument = errors.New("missing required argument")

// Request is the single input value of one worker invocation: a file path for
// OCR and transcription, raw text for TTS.
type Request struct {
	Input string
}

// Parse takes the first positional argument verbatim. args must not include
// the program name. Extra arguments are ignored.
func Parse(args []string) (Request, error) {
	if len(args) == 0 || args[0] == "" {
		return Request{}, ErrMissingArgument
	}
	return Request{Input: args[0]}, nil
}
