package config

// DefaultRC is flintsh's built-in rcfile, executed before any user rcfile
// (spec §6 "rcfile"), reproduced from original_source/system/shruntime.py's
// _DEFAULT_RC with Pythonista-specific lines (SELFUPDATE_BRANCH, the
// man/StaSh-close-button wording) dropped or reworded for flintsh.
const DefaultRC = `BIN_PATH=~/bin:$BIN_PATH
PYTHONPATH=$STASH_ROOT/lib:$PYTHONPATH
alias env='printenv'
alias logout='echo "use exit or close the terminal window"'
alias help='man'
alias la='ls -a'
alias ll='ls -la'
alias copy='pbcopy'
alias paste='pbpaste'
`

// ExtraBinPathEnv is the environment variable spec-supplemented from
// original_source/stash.py's handle_PYTHONPATH: extra script-search
// directories, inserted right after "." in the resolved path list.
const ExtraBinPathEnv = "FLINTSH_EXTRA_BIN_PATH"

// DebugEnv gates internal/shlog's debug tracing.
const DebugEnv = "FLINTSH_DEBUG"
