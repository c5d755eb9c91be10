// Package shlog is flintsh's debug-trace logger, gated by FLINTSH_DEBUG=1 and
// off by default. It stands in for original_source/stash.py's self.debug
// switch and its _debug_parser/_debug_runtime/_debug_completer traces. The
// teacher repo carries no structured-logging dependency anywhere, so this
// wraps the standard library log.Logger rather than introducing one.
package shlog

import (
	"io"
	"log"
	"os"
)

// debugEnv mirrors config.DebugEnv without importing internal/config, the
// same layering shrun.extraBinPathEnv uses to avoid a dependency on the
// config-file package from lower-level ambient code.
const debugEnv = "FLINTSH_DEBUG"

var (
	enabled = os.Getenv(debugEnv) == "1"
	logger  = newLogger(enabled)
)

func newLogger(enabled bool) *log.Logger {
	out := io.Discard
	if enabled {
		out = os.Stderr
	}
	return log.New(out, "flintsh: ", log.Ltime)
}

// Enabled reports whether FLINTSH_DEBUG=1 was set at process start.
func Enabled() bool { return enabled }

// Parser traces lexer/parser activity (original's _debug_parser).
func Parser(format string, args ...any) { trace("parser", format, args...) }

// Runtime traces dispatch/worker-stack activity (original's _debug_runtime).
func Runtime(format string, args ...any) { trace("runtime", format, args...) }

// Completer traces completion candidate generation (original's
// _debug_completer).
func Completer(format string, args ...any) { trace("completer", format, args...) }

func trace(tag, format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf("[%s] "+format, append([]any{tag}, args...)...)
}
