package nativecmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/flintsh/flintsh/internal/ui"
)

func init() {
	Register(&Command{
		Name:        "cat",
		Description: "Print file contents, syntax-highlighted when possible",
		Usage:       "cat [-n] [file]...",
		Run:         catCmd,
	})
}

func catCmd(ctx context.Context, env *ExecutionEnv, args []string) int {
	fs := pflag.NewFlagSet("cat", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	numbered := fs.BoolP("number", "n", false, "number output lines")
	if err := fs.Parse(ReorderArgsForFlags(fs, args)); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}

	if fs.NArg() == 0 {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			fmt.Fprintln(env.Stderr, "cat:", err)
			return 1
		}
		if *numbered {
			fmt.Fprint(env.Stdout, ui.HighlightWithLineNumbers(string(data), "", 1))
			return 0
		}
		fmt.Fprint(env.Stdout, string(data))
		return 0
	}

	status := 0
	for _, path := range fs.Args() {
		content, err := readFileToString(env, path)
		if err != nil {
			fmt.Fprintln(env.Stderr, "cat:", err)
			status = 1
			continue
		}
		if *numbered {
			fmt.Fprint(env.Stdout, ui.HighlightWithLineNumbers(content, path, 1))
			continue
		}
		fmt.Fprint(env.Stdout, ui.Highlight(content, path))
	}
	return status
}
