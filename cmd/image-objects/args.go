package main

import (
	"strings"

	"github.com/urfave/cli/v2"
)

// hoistFlags moves flags that appear after file arguments in front of them,
// so "image-objects a.png --save" behaves like "image-objects --save a.png".
// The flag package stops at the first positional argument otherwise.
// Everything after "--" is left as files.
func hoistFlags(app *cli.App, args []string) []string {
	if len(args) < 2 {
		return args
	}

	rootValues := valueFlags(app.Flags)
	i := 1
	for i < len(args) && isFlag(args[i]) {
		if args[i] == "--" {
			return args
		}
		i += flagWidth(args, i, rootValues)
	}
	if i >= len(args) {
		return args
	}

	out := make([]string, 0, len(args))
	if cmd := app.Command(args[i]); cmd != nil {
		out = append(out, args[:i+1]...)
		return append(out, reorder(args[i+1:], valueFlags(cmd.Flags))...)
	}
	out = append(out, args[:i]...)
	return append(out, reorder(args[i:], rootValues)...)
}

// reorder returns the flags of args followed by its positional arguments.
func reorder(args []string, values map[string]bool) []string {
	var flags, files []string
	for i := 0; i < len(args); {
		switch a := args[i]; {
		case a == "--":
			flags = append(flags, "--")
			return append(append(flags, files...), args[i+1:]...)
		case isFlag(a):
			n := flagWidth(args, i, values)
			flags = append(flags, args[i:i+n]...)
			i += n
		default:
			files = append(files, a)
			i++
		}
	}
	return append(flags, files...)
}

// valueFlags returns the names of the flags that take a separate value.
func valueFlags(flags []cli.Flag) map[string]bool {
	values := make(map[string]bool)
	for _, f := range flags {
		if _, ok := f.(*cli.BoolFlag); ok {
			continue
		}
		for _, name := range f.Names() {
			values[name] = true
		}
	}
	return values
}

func isFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}

// flagWidth is 2 when args[i] is a value flag written without "=" and a
// value follows, otherwise 1.
func flagWidth(args []string, i int, values map[string]bool) int {
	name := strings.TrimLeft(args[i], "-")
	if strings.Contains(name, "=") || !values[name] || i+1 >= len(args) {
		return 1
	}
	return 2
}
