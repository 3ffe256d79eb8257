// Package naming picks collision-free output paths for baked assets.
package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoExistenceCheck is returned when UniquePath is called without an
// Exister. There is no safe default for deciding whether a path is taken.
var ErrNoExistenceCheck = errors.New("naming: no existence check configured")

// MaxAttempts bounds the "(N)" suffix search.
const MaxAttempts = 10_000

// Exister reports whether a path is already taken.
type Exister interface {
	Exists(path string) (bool, error)
}

// ExisterFunc adapts a function to Exister.
type ExisterFunc func(path string) (bool, error)

// Exists calls f(path).
func (f ExisterFunc) Exists(path string) (bool, error) {
	return f(path)
}

// OSExister checks the local filesystem.
type OSExister struct{}

// Exists reports whether path exists. Errors other than not-exist are
// returned so a permission problem is not mistaken for a free name.
func (OSExister) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// UniquePath returns dir/base.ext, or dir/base(N).ext for the first unused
// N >= 1 when the plain name is taken. ext may be given with or without
// its leading dot.
func UniquePath(dir, base, ext string, ex Exister) (string, error) {
	if ex == nil {
		return "", ErrNoExistenceCheck
	}
	if base == "" {
		return "", fmt.Errorf("naming: empty base name")
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	candidate := filepath.Join(dir, base+ext)
	for n := 1; n <= MaxAttempts; n++ {
		taken, err := ex.Exists(candidate)
		if err != nil {
			return "", fmt.Errorf("naming: check %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s(%d)%s", base, n, ext))
	}
	return "", fmt.Errorf("naming: no free name for %s%s in %s after %d attempts", base, ext, dir, MaxAttempts)
}
