// Package paths resolves local file locations used for results and history.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	consts "github.com/khanhnv2901/headerguard/internal/shared/constants"
)

// ErrPathEscape indicates the resolved path would leave its base directory.
var ErrPathEscape = errors.New("path escapes base directory")

// ResolveWithin joins elems under base and rejects results outside base.
// The returned path is absolute.
func ResolveWithin(base string, elems ...string) (string, error) {
	if base == "" {
		return "", errors.New("base directory is required")
	}

	root, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolve base path: %w", err)
	}
	target := filepath.Join(append([]string{root}, elems...)...)

	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", fmt.Errorf("relativize path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, target)
	}
	return target, nil
}

// EnsureDir creates dir with the default permissions and returns its absolute form.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory: %w", err)
	}
	if err := os.MkdirAll(abs, consts.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("create directory %s: %w", abs, err)
	}
	return abs, nil
}
