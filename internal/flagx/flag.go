// Package flagx lets several packages parse their own subset of one
// command line without tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// ConfigFlags are the names accepted for the JSON config file path.
var ConfigFlags = []string{"-c", "-config"}

// EnvFileFlags are the names accepted for the .env file path.
var EnvFileFlags = []string{"-e", "-env"}

// flagName strips the leading dashes, so "-c" and "--c" name the same flag.
func flagName(arg string) string {
	return strings.TrimLeft(arg, "-")
}

// FilterArgs keeps the arguments that belong to the named flags, together
// with their values, and drops everything else. Both "-name value" and
// "-name=value" forms are understood, with one or two leading dashes.
// Scanning stops at a bare "--".
//
// A separate value is only taken when it does not itself start with '-'.
func FilterArgs(args []string, names []string) []string {
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[flagName(n)] = struct{}{}
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

		name, _, hasValue := strings.Cut(arg, "=")
		if _, ok := allowed[flagName(name)]; !ok {
			continue
		}
		out = append(out, arg)

		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// Lookup returns the value given to any of the named string flags in args.
// When a flag repeats, the last occurrence wins. Missing or malformed flags
// yield "".
func Lookup(args []string, names ...string) string {
	var value string

	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, flagName(n), "", "")
	}
	_ = fs.Parse(FilterArgs(args, names))

	return value
}
