package shrun

import (
	"context"
	"fmt"
	"strings"

	"github.com/flintsh/flintsh/internal/nativecmd"
)

// RegisterRuntimeCommands adds the handful of native commands that need
// direct access to the runtime (its history store, its command registry)
// rather than just an ExecutionEnv. These can't live in nativecmd's own
// init() the way the stateless reference commands do, since they close
// over one specific *Runtime — cmd/flintsh calls this once, right after
// constructing the Runtime.
func RegisterRuntimeCommands(rt *Runtime) {
	nativecmd.Register(&nativecmd.Command{
		Name:        "history",
		Description: "show the command history",
		Usage:       "history",
		Run: func(ctx context.Context, env *nativecmd.ExecutionEnv, args []string) int {
			for i, line := range rt.History.Active().All() {
				fmt.Fprintf(env.Stdout, "%4d  %s\n", i+1, line)
			}
			return 0
		},
	})

	nativecmd.Register(&nativecmd.Command{
		Name:        "help",
		Description: "list available commands, or describe one",
		Usage:       "help [command]",
		Run: func(ctx context.Context, env *nativecmd.ExecutionEnv, args []string) int {
			if len(args) == 0 {
				fmt.Fprintln(env.Stdout, strings.Join(nativecmd.Names(), "  "))
				return 0
			}
			cmd, ok := nativecmd.Get(args[0])
			if !ok {
				fmt.Fprintf(env.Stderr, "help: %s: command not found\n", args[0])
				return 1
			}
			fmt.Fprintf(env.Stdout, "%s - %s\n", cmd.Name, cmd.Description)
			if cmd.Usage != "" {
				fmt.Fprintf(env.Stdout, "usage: %s\n", cmd.Usage)
			}
			return 0
		},
	})

	nativecmd.Register(&nativecmd.Command{
		Name:        "clear",
		Description: "clear the terminal screen",
		Usage:       "clear",
		Run: func(ctx context.Context, env *nativecmd.ExecutionEnv, args []string) int {
			fmt.Fprint(env.Stdout, "\x1b[H\x1b[2J")
			return 0
		},
	})
}
