package nativecmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/atotto/clipboard"
)

func init() {
	Register(&Command{Name: "pwd", Description: "Print the working directory", Run: pwd})
	Register(&Command{Name: "printenv", Description: "Print environment variables", Run: printenv})
	Register(&Command{Name: "true", Description: "Do nothing, successfully", Run: cmdTrue})
	Register(&Command{Name: "false", Description: "Do nothing, unsuccessfully", Run: cmdFalse})
	Register(&Command{
		Name:        "pbcopy",
		Description: "Copy standard input to the system clipboard",
		Run:         pbcopy,
	})
	Register(&Command{
		Name:        "pbpaste",
		Description: "Print the system clipboard to standard output",
		Run:         pbpaste,
	})
}

func pwd(ctx context.Context, env *ExecutionEnv, args []string) int {
	fmt.Fprintln(env.Stdout, env.Cwd)
	return 0
}

func printenv(ctx context.Context, env *ExecutionEnv, args []string) int {
	if len(args) > 0 {
		for _, name := range args {
			fmt.Fprintln(env.Stdout, env.Environ[name])
		}
		return 0
	}
	names := make([]string, 0, len(env.Environ))
	for n := range env.Environ {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(env.Stdout, "%s=%s\n", n, env.Environ[n])
	}
	return 0
}

func cmdTrue(ctx context.Context, env *ExecutionEnv, args []string) int  { return 0 }
func cmdFalse(ctx context.Context, env *ExecutionEnv, args []string) int { return 1 }

// pbcopy/pbpaste back the "copy"/"paste" aliases of _DEFAULT_RC (see
// original_source/system/shruntime.py's _DEFAULT_RC).
func pbcopy(ctx context.Context, env *ExecutionEnv, args []string) int {
	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)
	for {
		n, err := env.Stdin.Read(tmp)
		buf = append(buf, tmp[:n]...)
		if err != nil {
			break
		}
	}
	if err := clipboard.WriteAll(string(buf)); err != nil {
		fmt.Fprintln(env.Stderr, "pbcopy:", err)
		return 1
	}
	return 0
}

func pbpaste(ctx context.Context, env *ExecutionEnv, args []string) int {
	s, err := clipboard.ReadAll()
	if err != nil {
		fmt.Fprintln(env.Stderr, "pbpaste:", err)
		return 1
	}
	fmt.Fprint(env.Stdout, s)
	return 0
}
