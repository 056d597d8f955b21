// Package cli provides the interactive gophdrive command-line client.
//
// It wires configuration, the sandboxed local browser, the remote connection
// and the upload pipeline behind a small REPL:
//
//	connect [addr]           connect to a daemon (default from config)
//	ls [path]                list a remote directory
//	lls [path]               list a local directory under the local root
//	put <file> [target_dir]  upload a local file
//	status                   show the connection
//	help, exit | quit
//
// Command failures are printed and the loop keeps going. The REPL is started
// via App.Run(ctx), which blocks until the user exits or input ends.
package cli
