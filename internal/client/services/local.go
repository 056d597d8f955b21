package services

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/dirlist"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/sandbox"
)

// LocalBrowser lists directories below the local root (the user's home by
// default). Hidden entries are not shown.
type LocalBrowser struct {
	guard  *sandbox.Guard
	lister *dirlist.Lister
}

func NewLocalBrowser(guard *sandbox.Guard, logger logging.Logger) *LocalBrowser {
	return &LocalBrowser{
		guard:  guard,
		lister: dirlist.New(guard, dirlist.Options{SkipHidden: true}, logger.With("module", "local_browser")),
	}
}

// ListLocalDirectory returns the visible children of path and the absolute
// directory they came from.
func (b *LocalBrowser) ListLocalDirectory(ctx context.Context, path string) ([]dirlist.Entry, string, error) {
	return b.lister.List(ctx, path)
}

// Root returns the canonical local root.
func (b *LocalBrowser) Root() string {
	return b.guard.Root()
}
