package speech

import (
	"os"
	"path/filepath"
	"slices"
)

// ExposeToolset appends dir (the bundled ffmpeg/bin) to PATH so the audio
// decoding tools are found by this process and its children.
func ExposeToolset(dir string) error {
	if dir == "" {
		return nil
	}
	current := os.Getenv("PATH")
	if slices.Contains(filepath.SplitList(current), dir) {
		return nil
	}
	if current == "" {
		return os.Setenv("PATH", dir)
	}
	return os.Setenv("PATH", current+string(os.PathListSeparator)+dir)
}
