// Package flagx lets the config layers of several components share one
// command line: each one keeps only the flags it owns before parsing.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs keeps the arguments naming one of names together with their
// values. Both "-a value" and "-a=value" are recognised; the next argument is
// taken as the value only when it does not start with "-".
func FilterArgs(args []string, names []string) []string {
	owned := make(map[string]bool, len(names))
	for _, n := range names {
		owned[n] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		name, _, inline := strings.Cut(args[i], "=")
		if !strings.HasPrefix(name, "-") || !owned[name] {
			continue
		}
		out = append(out, args[i])
		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

// ConfigPath extracts the config file path given via -c or -config from
// args. Other arguments are ignored so the caller's own flag set can parse
// them later. The last occurrence wins; an empty string means no file.
func ConfigPath(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return config
}

// JsonConfigFlags is ConfigPath applied to the process arguments.
func JsonConfigFlags() string {
	return ConfigPath(os.Args[1:])
}
