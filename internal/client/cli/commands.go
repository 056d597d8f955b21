package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdrive/internal/dirlist"
	"github.com/dustin/go-humanize"
)

var errUsage = errors.New("usage")

func (a *App) report(err error) error {
	printlnFn("Error:", err.Error())
	return err
}

func argOr(args []string, i int, def string) string {
	if len(args) > i {
		return args[i]
	}
	return def
}

func (a *App) Connect(ctx context.Context, args []string) error {
	addr := argOr(args, 0, a.config.ServerEndpointAddr)

	if err := a.remote.Connect(ctx, addr); err != nil {
		return a.report(err)
	}

	target, _ := a.remote.Status()
	printlnFn("Connected to", target)
	return nil
}

func (a *App) ListRemote(ctx context.Context, args []string) error {
	path := argOr(args, 0, "/")

	entries, err := a.remote.List(ctx, path)
	if err != nil {
		return a.report(err)
	}

	printEntries(entries, false)
	return nil
}

func (a *App) ListLocal(ctx context.Context, args []string) error {
	path := argOr(args, 0, "/")

	entries, dir, err := a.local.ListLocalDirectory(ctx, path)
	if err != nil {
		return a.report(err)
	}

	printlnFn(dir + ":")
	printEntries(entries, true)
	return nil
}

func (a *App) Put(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: put <file> [target_dir]")
		return errUsage
	}

	up, err := a.transfer.Upload(ctx, args[0], argOr(args, 1, "/"))
	if err != nil {
		return a.report(err)
	}

	printlnFn(fmt.Sprintf("%s (%s) -> %s: %s", up.Name, humanSize(up.Size), up.TargetDir, up.Message))
	return nil
}

func (a *App) Status(ctx context.Context) error {
	if target, ok := a.remote.Status(); ok {
		printlnFn("Connected to", target)
	} else {
		printlnFn("Not connected")
	}
	return nil
}

func printEntries(entries []dirlist.Entry, withSize bool) {
	if len(entries) == 0 {
		printlnFn("(empty)")
		return
	}
	for _, e := range entries {
		switch {
		case e.IsDir:
			printlnFn(fmt.Sprintf("d %10s  %s/", "", e.Name))
		case withSize:
			printlnFn(fmt.Sprintf("- %10s  %s", humanSize(e.Size), e.Name))
		default:
			printlnFn(fmt.Sprintf("- %10s  %s", "", e.Name))
		}
	}
}

func humanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
