package client

import (
	"fmt"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"google.golang.org/grpc/codes"
)

var (
	ErrNotConnected = fmt.Errorf("%w: not connected", common.ErrUnavailable)
	ErrNoEOF        = fmt.Errorf("%w: upload aborted before the last chunk", common.ErrInternal)
)

// RemoteError is a failure reported by the server. It matches the common
// sentinel for its code with errors.Is and prints the server's message.
type RemoteError struct {
	Kind    error
	Code    codes.Code
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Kind
}
