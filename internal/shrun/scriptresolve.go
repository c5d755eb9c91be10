package shrun

import (
	"os"
	"path/filepath"
	"strings"
)

// extraBinPathEnv mirrors config.ExtraBinPathEnv without importing
// internal/config (shrun must stay independent of the config file format);
// it is the supplemented PYTHONPATH-style extra-path handling from
// original_source/stash.py's handle_PYTHONPATH (SPEC_FULL.md §4).
const extraBinPathEnv = "FLINTSH_EXTRA_BIN_PATH"

// effectiveBinPath resolves the script search path dynamically from the
// current frame's BIN_PATH (spec §6 recognises it as a live environment
// variable, not a startup-only setting) with FLINTSH_EXTRA_BIN_PATH's
// directories inserted right after "." — the same insertion point
// find_script_file gives "." itself. fallback is used only when the frame
// has no BIN_PATH at all (e.g. a test WorkerState built without one).
func effectiveBinPath(state *WorkerState, fallback []string) []string {
	var dirs []string
	if extra, ok := state.Environ[extraBinPathEnv]; ok && extra != "" {
		dirs = append(dirs, strings.Split(extra, ":")...)
	}
	if binPath, ok := state.Environ["BIN_PATH"]; ok && binPath != "" {
		dirs = append(dirs, strings.Split(binPath, ":")...)
		return dirs
	}
	return append(dirs, fallback...)
}

// FindScriptFile resolves a cmd_word to a script path on disk, mirroring
// original_source/system/shruntime.py's find_script_file. Unlike the
// original, there is no ".py" suffix search: native dispatch (internal
// /nativecmd) replaces in-process ".py" execution entirely, so the only
// file-backed scripts are ".sh"-style shell scripts.
func FindScriptFile(cwd string, binPath []string, name string) (string, error) {
	if path, ok := matchExact(cwd, name); ok {
		return path, nil
	}

	sawDirectory := false
	searchDirs := append([]string{"."}, binPath...)
	for _, dir := range searchDirs {
		abs := dir
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, abs)
		}
		entries, err := os.ReadDir(abs)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			base := entry.Name()
			if base != name && base != name+".sh" {
				continue
			}
			if entry.IsDir() {
				sawDirectory = true
				continue
			}
			return filepath.Join(abs, base), nil
		}
	}

	if sawDirectory {
		return "", &IsDirectoryError{Name: name}
	}
	return "", &FileNotFoundError{Name: name}
}

// matchExact checks name and name+".sh" as a direct path (relative to cwd
// or absolute), the first branch of find_script_file's resolve order.
func matchExact(cwd, name string) (string, bool) {
	candidates := []string{name, name + ".sh"}
	for _, c := range candidates {
		abs := c
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, abs)
		}
		info, err := os.Stat(abs)
		if err == nil && !info.IsDir() {
			return abs, true
		}
	}
	return "", false
}
