package nativecmd

import (
	"context"
	"fmt"
	"strings"
)

func init() {
	Register(&Command{
		Name:        "echo",
		Description: "Output arguments to standard output",
		Usage:       "echo [-n] [string]...\\n\\nOptions:\\n  -n    Do not output trailing newline",
		Run:         echo,
	})
	Register(&Command{
		Name:        "printf",
		Description: "Format and print data",
		Usage:       "printf <format> [arguments]...",
		Run:         printf,
	})
}

func echo(ctx context.Context, env *ExecutionEnv, args []string) int {
	newline := true
	if len(args) > 0 && args[0] == "-n" {
		newline = false
		args = args[1:]
	}

	fmt.Fprint(env.Stdout, strings.Join(args, " "))
	if newline {
		fmt.Fprintln(env.Stdout)
	}
	return 0
}

func printf(ctx context.Context, env *ExecutionEnv, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(env.Stderr, "usage: printf <format> [arguments...]")
		return 1
	}

	params := make([]interface{}, len(args)-1)
	for i, v := range args[1:] {
		params[i] = v
	}

	fmt.Fprintf(env.Stdout, unescape(args[0]), params...)
	return 0
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, "\\n", "\n")
	s = strings.ReplaceAll(s, "\\t", "\t")
	s = strings.ReplaceAll(s, "\\r", "\r")
	s = strings.ReplaceAll(s, "\\\\", "\\")
	return s
}
