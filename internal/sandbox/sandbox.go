// Package sandbox confines client-supplied paths to a configured root
// directory.
//
// Every check runs on canonical paths: the requested path is joined onto the
// canonical root, symlinks and ".." segments are resolved, and only then is
// the result tested for containment. A leading separator in the request is
// stripped and never treated as an absolute override of the root.
//
// Errors wrap the sentinels from package common:
//
//   - common.ErrNotFound          the path does not exist or cannot be canonicalized
//   - common.ErrPermissionDenied  the canonical path escapes the root
//   - common.ErrInvalidArgument   a file name is not a single path element
//   - common.ErrInternal          the root itself is gone or unreadable
package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// Guard resolves paths relative to a canonical root.
type Guard struct {
	root string
}

// Target is a resolved upload destination. Both paths are absolute and
// canonical up to the deepest component that already exists.
type Target struct {
	Dir  string
	File string
}

// New canonicalizes root once and returns a Guard bound to it.
func New(root string) (*Guard, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: sandbox root %q: %v", common.ErrInternal, root, err)
	}

	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: sandbox root %q: %v", common.ErrInternal, root, err)
	}

	info, err := os.Stat(canon)
	if err != nil {
		return nil, fmt.Errorf("%w: sandbox root %q: %v", common.ErrInternal, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: sandbox root %q is not a directory", common.ErrInternal, root)
	}

	return &Guard{root: canon}, nil
}

// Root returns the canonical root directory.
func (g *Guard) Root() string {
	return g.root
}

// Resolve maps requested onto the root and returns its canonical form.
// The path must exist.
func (g *Guard) Resolve(requested string) (string, error) {
	joined := filepath.Join(g.root, trimLeadingSeparators(requested))

	canon, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if _, rootErr := os.Stat(g.root); rootErr != nil {
			return "", fmt.Errorf("%w: sandbox root unavailable: %v", common.ErrInternal, rootErr)
		}
		// a traversal that points at nothing is still a traversal
		if !g.contains(joined) {
			return "", fmt.Errorf("%w: %q is outside the root", common.ErrPermissionDenied, requested)
		}
		return "", fmt.Errorf("%w: %q", common.ErrNotFound, requested)
	}

	if !g.contains(canon) {
		return "", fmt.Errorf("%w: %q is outside the root", common.ErrPermissionDenied, requested)
	}

	return canon, nil
}

// ResolveTarget resolves the destination of an upload. Unlike Resolve,
// neither targetDir nor the file has to exist: the deepest existing ancestor
// is canonicalized and the missing tail is re-attached, so the result can be
// checked against the root before anything is created.
func (g *Guard) ResolveTarget(targetDir, filename string) (Target, error) {
	if err := ValidName(filename); err != nil {
		return Target{}, err
	}

	dir := filepath.Join(g.root, trimLeadingSeparators(targetDir))
	if !g.contains(dir) {
		return Target{}, fmt.Errorf("%w: %q is outside the root", common.ErrPermissionDenied, targetDir)
	}

	canonDir, err := canonicalizeExisting(dir)
	if err != nil {
		return Target{}, fmt.Errorf("%w: resolve %q: %v", common.ErrInternal, targetDir, err)
	}
	if !g.contains(canonDir) {
		return Target{}, fmt.Errorf("%w: %q is outside the root", common.ErrPermissionDenied, targetDir)
	}

	file := filepath.Join(canonDir, filename)

	// an existing file may itself be a symlink
	canonFile, err := filepath.EvalSymlinks(file)
	switch {
	case err == nil:
		if !g.contains(canonFile) {
			return Target{}, fmt.Errorf("%w: %q is outside the root", common.ErrPermissionDenied, filepath.Join(targetDir, filename))
		}
		file = canonFile
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Target{}, fmt.Errorf("%w: resolve %q: %v", common.ErrInternal, filename, err)
	}

	return Target{Dir: filepath.Dir(file), File: file}, nil
}

// ValidName reports whether name can be used as a single file name inside a
// directory.
func ValidName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: filename cannot be empty", common.ErrInvalidArgument)
	case name == "." || name == "..":
		return fmt.Errorf("%w: invalid filename %q", common.ErrInvalidArgument, name)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: filename %q must not contain path separators", common.ErrInvalidArgument, name)
	case len(name) > common.MaxFilenameLength:
		return fmt.Errorf("%w: filename longer than %d bytes", common.ErrInvalidArgument, common.MaxFilenameLength)
	}
	return nil
}

// contains compares path components, so "/data2" is not inside "/data".
func (g *Guard) contains(p string) bool {
	rel, err := filepath.Rel(g.root, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func trimLeadingSeparators(p string) string {
	return strings.TrimLeft(p, `/\`)
}

// canonicalizeExisting resolves symlinks in the longest existing prefix of p
// and appends the remaining components unchanged.
func canonicalizeExisting(p string) (string, error) {
	var tail []string
	cur := p
	for {
		canon, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{canon}, tail...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", err
		}
		tail = append([]string{filepath.Base(cur)}, tail...)
		cur = parent
	}
}
