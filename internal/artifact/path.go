package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/xid"
)

const timeLayout = "20060102T150405Z"

// NewPath returns an absolute, per-invocation unique path inside dir:
// <dir>/<prefix>_<UTC time>_<xid>.<ext>. The directory is created if needed.
func NewPath(dir, prefix, ext string, now time.Time) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s_%s.%s", prefix, now.UTC().Format(timeLayout), xid.New().String(), ext)
	return filepath.Join(abs, name), nil
}

// ExecutableDir is the directory of the running worker binary; artifacts
// default to living beside it.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
