// Package client is the client side of the gophdrive file service.
//
// # Overview
//
// Client is the transport-agnostic contract the CLI works with: connect to a
// daemon, list a remote directory and stream one file up. GRPCClient
// implements it over a single persistent gRPC connection that is reused by
// every call until Close or the next Connect.
//
// # Error Handling
//
// Every error is matchable with errors.Is against the sentinels in
// internal/common. Calls made before Connect fail with ErrNotConnected
// (common.ErrUnavailable); a failed Connect yields common.ErrConnection;
// server statuses come back as *RemoteError wrapping the sentinel of their
// code.
//
// Concurrency & Contexts
//
// GRPCClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation; cancelling an upload aborts the
// stream, and the server discards what it received.
package client
