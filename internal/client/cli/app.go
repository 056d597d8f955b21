package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/config"
	"github.com/dmitrijs2005/gophdrive/internal/client/services"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/sandbox"
	"golang.org/x/term"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	remote      services.RemoteService
	local       *services.LocalBrowser
	transfer    services.TransferService
	in          io.Reader
	interactive bool
}

func NewApp(c *config.Config) (*App, error) {

	logger, err := logging.New(os.Stderr, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	guard, err := sandbox.New(c.LocalRoot)
	if err != nil {
		return nil, fmt.Errorf("local root %q: %w", c.LocalRoot, err)
	}

	apiClient := client.NewGRPCClient(c.ConnectTimeout)

	return &App{
		config:      c,
		logger:      logger,
		remote:      services.NewRemoteService(apiClient, logger),
		local:       services.NewLocalBrowser(guard, logger),
		transfer:    services.NewTransferService(apiClient, guard, logger),
		in:          os.Stdin,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}, nil
}

// Run reads commands until exit or end of input, then closes the connection.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.remote.Close(); err != nil {
			a.logger.Warn(ctx, "close connection", "error", err)
		}
		if s, ok := a.logger.(interface{ Sync() error }); ok {
			_ = s.Sync()
		}
	}()

	if a.interactive {
		printlnFn("Welcome to gophdrive CLI (type 'help' for commands)")
		printlnFn("Local root:", a.local.Root())
	}

	runREPL(ctx, a, a.prompt, bufio.NewScanner(a.in), a.interactive)
}

func (a *App) prompt() string {
	if target, ok := a.remote.Status(); ok {
		return fmt.Sprintf("gd (%s)> ", target)
	}
	return "gd (offline)> "
}
