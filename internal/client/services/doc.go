// Package services contains application services for the gophdrive client:
// the remote connection, the sandboxed local file browser and the upload
// pipeline that ties a local file to the server stream.
package services
