package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Connect(ctx context.Context, args []string) error
	ListRemote(ctx context.Context, args []string) error
	ListLocal(ctx context.Context, args []string) error
	Put(ctx context.Context, args []string) error
	Status(ctx context.Context) error
}

const helpText = `Available commands:
  connect [addr]           connect to a server
  ls [path]                list a remote directory
  lls [path]               list a local directory
  put <file> [target_dir]  upload a local file
  status                   show the connection
  exit | quit              leave the program`

// runREPL reads a line from scanner, parses the first token as the command
// and dispatches to a. The prompt (from promptFn) is only printed when
// showPrompt is set, so piped input produces clean output. The loop exits on
// scanner EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors to the user.
func runREPL(ctx context.Context, a execIface, promptFn func() string, scanner *bufio.Scanner, showPrompt bool) {
	for {
		if showPrompt {
			printFn(promptFn())
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help", "?":
			printlnFn(helpText)

		case "connect":
			_ = a.Connect(ctx, args)

		case "ls":
			_ = a.ListRemote(ctx, args)

		case "lls":
			_ = a.ListLocal(ctx, args)

		case "put", "upload":
			_ = a.Put(ctx, args)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
