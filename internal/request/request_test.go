package request

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{name: "nil args", args: nil, wantErr: ErrMissingArgument},
		{name: "empty string", args: []string{""}, wantErr: ErrMissingArgument},
		{name: "path", args: []string{"/tmp/scan.png"}, want: "/tmp/scan.png"},
		{name: "text kept verbatim", args: []string{"  ආයුබෝවන් "}, want: "  ආයුබෝවන් "},
		{name: "extra args ignored", args: []string{"a.wav", "b.wav"}, want: "a.wav"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := Parse(tc.args)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if req.Input != tc.want {
				t.Errorf("input = %q, want %q", req.Input, tc.want)
			}
		})
	}
}
