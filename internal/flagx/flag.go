// Package flagx splits a raw argument list between several flag parsers and
// the positional arguments that follow them.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// Spec lists the flags owned by one parser. Value flags consume the next token
// when it is not written in the "-flag=value" form; Bool flags never do.
type Spec struct {
	Value []string
	Bool  []string
}

func (s Spec) kind(name string) (known bool, takesValue bool) {
	for _, f := range s.Value {
		if f == name {
			return true, true
		}
	}
	for _, f := range s.Bool {
		if f == name {
			return true, false
		}
	}
	return false, false
}

// FilterArgs returns the subset of args that belongs to spec, keeping flag
// values attached to their flags and preserving order.
//
// Supported forms:
//
//	-b http://backend        value as a separate argument
//	-b=http://backend        value joined with '='
//	-verify                  boolean flag
func FilterArgs(args []string, spec Spec) []string {
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		known, takesValue := spec.kind(name)
		if !known {
			continue
		}

		filtered = append(filtered, arg)
		if hasValue || !takesValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// Positional returns the arguments that are neither flags known to any of the
// given specs nor values of such flags. Everything after "--" is positional.
// Unknown dash-prefixed tokens are dropped.
func Positional(args []string, specs ...Spec) []string {
	rest := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			rest = append(rest, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			rest = append(rest, arg)
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if hasValue {
			continue
		}
		for _, s := range specs {
			if known, takesValue := s.kind(name); known && takesValue {
				i++
				break
			}
		}
	}

	return rest
}

// ConfigFileSpec owns the -c/-config flags.
var ConfigFileSpec = Spec{Value: []string{"-c", "-config"}}

// JsonConfigFlags extracts the config file path given with -c or -config.
// It returns an empty string when neither is present.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], ConfigFileSpec)

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
