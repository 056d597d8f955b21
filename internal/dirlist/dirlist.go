// Package dirlist enumerates one level of a directory inside a sandbox.
//
// The server lists its storage root for ListDir calls; the client lists the
// local root for the file picker. Both go through the same sandbox guard.
// Entries come back in filesystem enumeration order, which is not sorted.
package dirlist

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/filex"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/sandbox"
)

// Entry describes one child of a listed directory. Size is the byte size
// reported by the filesystem (directories report whatever the OS returns).
type Entry struct {
	Name  string
	IsDir bool
	Size  int64
}

// Options tune a listing.
type Options struct {
	// SkipHidden drops dotfiles. "." and ".." are kept if the OS returns them.
	SkipHidden bool
	// SkipStaging drops the staging files of uploads still in progress.
	SkipStaging bool
}

// Lister lists directories below the root of its guard.
type Lister struct {
	guard  *sandbox.Guard
	opts   Options
	logger logging.Logger
}

func New(guard *sandbox.Guard, opts Options, logger logging.Logger) *Lister {
	return &Lister{guard: guard, opts: opts, logger: logger}
}

// List returns the immediate children of path and the canonical directory
// they were read from. Entries whose metadata cannot be read are skipped with
// a warning.
func (l *Lister) List(ctx context.Context, path string) ([]Entry, string, error) {
	dir, err := l.guard.Resolve(path)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(dir)
	if err != nil {
		return nil, "", fmt.Errorf("%w: open directory: %v", common.ErrInternal, err)
	}
	defer f.Close()

	// ReadDir(-1) keeps enumeration order; os.ReadDir would sort
	children, err := f.ReadDir(-1)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read directory: %v", common.ErrInternal, err)
	}

	entries := make([]Entry, 0, len(children))
	for _, c := range children {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		name := c.Name()
		if l.opts.SkipHidden && isHidden(name) {
			continue
		}
		if l.opts.SkipStaging && filex.IsStaging(name) {
			continue
		}

		info, err := c.Info()
		if err != nil {
			l.logger.Warn(ctx, "skipping entry without metadata", "dir", dir, "name", name, "error", err)
			continue
		}

		entries = append(entries, Entry{Name: name, IsDir: info.IsDir(), Size: info.Size()})
	}

	return entries, dir, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
