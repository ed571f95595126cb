// Package flagx lets several independent flag sets share os.Args.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// ConfigEnvName names the variable consulted when no config file flag is given.
const ConfigEnvName = "FAMILYVAULT_CONFIG"

// FilterArgs keeps only the arguments that name one of allowed, together with
// their values. Names match regardless of leading dashes, as in the flag
// package, so "-config", "--config" and "--config=x" all match "-config".
// A separate value is taken from the next argument unless it looks like a flag.
// Parsing stops at "--".
func FilterArgs(args []string, allowed []string) []string {
	names := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		names[flagName(f)] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, inline := strings.Cut(arg, "=")
		if _, ok := names[flagName(name)]; !ok {
			continue
		}
		out = append(out, arg)
		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

func flagName(s string) string {
	return strings.TrimLeft(s, "-")
}

// ConfigFile returns the path given with -c or -config in args, or
// getenv(ConfigEnvName) when neither is present. Empty means no file.
func ConfigFile(args []string, getenv func(string) string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "config file (JSON or YAML)")
	fs.StringVar(&path, "c", "", "config file (shorthand)")
	_ = ParseKnown(fs, args)

	if path == "" {
		path = getenv(ConfigEnvName)
	}
	return path
}

// ConfigFileFlag is ConfigFile over the process arguments and environment.
func ConfigFileFlag() string {
	return ConfigFile(os.Args[1:], os.Getenv)
}

// ParseKnown parses into fs only those args that name one of its flags, so
// several components can each own a flag set over the same command line.
func ParseKnown(fs *flag.FlagSet, args []string) error {
	var names []string
	fs.VisitAll(func(f *flag.Flag) {
		names = append(names, f.Name)
	})
	return fs.Parse(FilterArgs(args, names))
}
