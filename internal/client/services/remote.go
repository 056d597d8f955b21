package services

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/dirlist"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

// RemoteService holds the connection to one daemon.
//
// Contract:
//   - Connect: (re)connect to address, replacing any previous connection.
//   - List: list a directory under the server root.
//   - Status: the current target and whether a connection is up.
//   - Close: drop the connection.
type RemoteService interface {
	Connect(ctx context.Context, address string) error
	List(ctx context.Context, path string) ([]dirlist.Entry, error)
	Status() (string, bool)
	Close() error
}

type remoteService struct {
	client client.Client
	logger logging.Logger
}

func NewRemoteService(c client.Client, logger logging.Logger) RemoteService {
	return &remoteService{client: c, logger: logger.With("module", "remote")}
}

func (r *remoteService) Connect(ctx context.Context, address string) error {
	if err := r.client.Connect(ctx, address); err != nil {
		r.logger.Warn(ctx, "connect failed", "address", address, "error", err)
		return err
	}
	r.logger.Info(ctx, "connected", "target", r.client.Target())
	return nil
}

func (r *remoteService) List(ctx context.Context, path string) ([]dirlist.Entry, error) {
	return r.client.ListDirectory(ctx, path)
}

func (r *remoteService) Status() (string, bool) {
	return r.client.Target(), r.client.Connected()
}

func (r *remoteService) Close() error {
	return r.client.Close()
}
