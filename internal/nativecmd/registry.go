// Package nativecmd is the in-process command registry: the Go-native
// stand-in for the ".py" scripts original_source/stash.py dispatches via
// exec_py_file. Each Command is a small, self-contained Go function rather
// than a real interpreted file, addressed by basename exactly the way the
// teacher's internal/commands registry works.
package nativecmd

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/spf13/pflag"
)

// ExecutionEnv is the per-invocation environment a native command runs
// with: the effective environ (worker environ merged with that command's
// prefix assignments) and the worker's current virtual working directory.
type ExecutionEnv struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Environ map[string]string
	Cwd     string
}

func (e *ExecutionEnv) Getenv(name string) string { return e.Environ[name] }

// Command is one registered native command.
type Command struct {
	Name        string
	Description string
	Usage       string
	Run         func(ctx context.Context, env *ExecutionEnv, args []string) int
}

// Registry holds every native command, keyed by name.
var Registry = make(map[string]*Command)

func Register(cmd *Command) { Registry[cmd.Name] = cmd }

func Get(name string) (*Command, bool) {
	cmd, ok := Registry[name]
	return cmd, ok
}

// Names returns every registered command name, sorted.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for n := range Registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// HasHelpFlag reports whether args request -h/--help before the first
// positional argument.
func HasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
		if len(arg) > 0 && arg[0] != '-' {
			break
		}
	}
	return false
}

// ReorderArgsForFlags reorders args so pflag-style flags precede positional
// arguments, allowing Unix-style interspersed flags ("cmd file.txt -f").
func ReorderArgsForFlags(fs *pflag.FlagSet, args []string) []string {
	var flags, positional []string

	i := 0
	for i < len(args) {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if strings.HasPrefix(arg, "-") && arg != "-" {
			flags = append(flags, arg)
			name := strings.TrimLeft(arg, "-")
			if idx := strings.Index(name, "="); idx >= 0 {
				i++
				continue
			}
			if f := fs.Lookup(name); f != nil {
				if f.Value.Type() == "bool" {
					i++
					continue
				}
				if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
					i++
					flags = append(flags, args[i])
				}
			}
		} else {
			positional = append(positional, arg)
		}
		i++
	}

	return append(flags, positional...)
}
