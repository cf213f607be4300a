package cli

import (
	"os"
	"strconv"
	"strings"
)

// Options carries the command-line settings for one invocation. Zero values
// mean "not set"; the caller merges them over the loaded config.
type Options struct {
	ConfigPath string
	Formats    []string
	Jobs       int
	Zone       string
	Input      string
}

// ParseArgs scans CLI arguments into Options.
//
// Recognized flags: `-c/--config <path>`, `-f/--format <spec>` (repeatable,
// earlier specs have higher match priority), `-j/--jobs <n>`, and
// `-z/--zone <name>`. The first non-flag argument is the input file path or
// URL; "-" and an absent input both mean stdin.
func ParseArgs(argv []string) Options {
	var o Options
	for i := 0; i < len(argv); i++ {
		switch arg := argv[i]; {
		case (arg == "-c" || arg == "--config") && i+1 < len(argv):
			o.ConfigPath = argv[i+1]
			i++
		case (arg == "-f" || arg == "--format") && i+1 < len(argv):
			o.Formats = append(o.Formats, argv[i+1])
			i++
		case (arg == "-j" || arg == "--jobs") && i+1 < len(argv):
			if n, err := strconv.Atoi(argv[i+1]); err == nil {
				o.Jobs = n
			}
			i++
		case (arg == "-z" || arg == "--zone") && i+1 < len(argv):
			o.Zone = argv[i+1]
			i++
		default:
			if o.Input == "" && (arg == "-" || !strings.HasPrefix(arg, "-")) {
				o.Input = arg
			}
		}
	}
	return o
}

// Exit terminates the process with the given exit code.
func Exit(code int) {
	os.Exit(code)
}
