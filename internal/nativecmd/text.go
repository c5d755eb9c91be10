package nativecmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/pflag"

	"github.com/flintsh/flintsh/internal/util"
)

func init() {
	Register(&Command{
		Name:        "diff",
		Description: "Show changes between two files",
		Usage:       "diff <file1> <file2>",
		Run:         diffCmd,
	})
	Register(&Command{
		Name:        "sort",
		Description: "Sort lines of text",
		Usage:       "sort [-r] <file>",
		Run:         sortCmd,
	})
	Register(&Command{
		Name:        "uniq",
		Description: "Report or omit repeated lines",
		Usage:       "uniq [-c] <file>",
		Run:         uniqCmd,
	})
	Register(&Command{
		Name:        "wc",
		Description: "Print newline, word, and byte counts",
		Usage:       "wc [-lwc] <file>",
		Run:         wcCmd,
	})
	Register(&Command{
		Name:        "head",
		Description: "Output the first part of files",
		Usage:       "head [-n lines] <file>",
		Run:         headCmd,
	})
	Register(&Command{
		Name:        "tail",
		Description: "Output the last part of files",
		Usage:       "tail [-n lines] <file>",
		Run:         tailCmd,
	})
}

func resolvePath(env *ExecutionEnv, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(env.Cwd, path)
}

func readFileToString(env *ExecutionEnv, path string) (string, error) {
	full := resolvePath(env, path)
	info, err := os.Stat(full)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: is a directory", path)
	}
	if check := util.CheckMemoryForSize(info.Size(), 0); !check.OK {
		return "", fmt.Errorf("%s: %s", path, check.AbortReason)
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func readFileLines(env *ExecutionEnv, path string) ([]string, error) {
	content, err := readFileToString(env, path)
	if err != nil {
		return nil, err
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(content, "\n"), nil
}

func diffCmd(ctx context.Context, env *ExecutionEnv, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(env.Stderr, "usage: diff <file1> <file2>")
		return 1
	}
	file1, file2 := args[0], args[1]

	content1, err := readFileLines(env, file1)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}
	content2, err := readFileLines(env, file2)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}

	diff := difflib.UnifiedDiff{A: content1, B: content2, FromFile: file1, ToFile: file2, Context: 3}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}
	fmt.Fprint(env.Stdout, text)
	return 0
}

func readArgOrStdin(env *ExecutionEnv, fs *pflag.FlagSet, usage string) (string, bool) {
	if fs.NArg() < 1 {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			fmt.Fprintln(env.Stderr, err)
			return "", false
		}
		return string(data), true
	}
	content, err := readFileToString(env, fs.Arg(0))
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return "", false
	}
	return content, true
}

func splitDroppingTrailingBlank(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func sortCmd(ctx context.Context, env *ExecutionEnv, args []string) int {
	fs := pflag.NewFlagSet("sort", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	reversed := fs.BoolP("reverse", "r", false, "reverse sort order")
	if err := fs.Parse(ReorderArgsForFlags(fs, args)); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}

	content, ok := readArgOrStdin(env, fs, "sort [-r] <file>")
	if !ok {
		return 1
	}
	lines := splitDroppingTrailingBlank(content)
	sort.Strings(lines)
	if *reversed {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}
	for _, line := range lines {
		fmt.Fprintln(env.Stdout, line)
	}
	return 0
}

func uniqCmd(ctx context.Context, env *ExecutionEnv, args []string) int {
	fs := pflag.NewFlagSet("uniq", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	count := fs.BoolP("count", "c", false, "count occurrences")
	if err := fs.Parse(ReorderArgsForFlags(fs, args)); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}

	content, ok := readArgOrStdin(env, fs, "uniq [-c] <file>")
	if !ok {
		return 1
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	var prevLine string
	var occurrences int
	first := true
	flush := func() {
		if *count {
			fmt.Fprintf(env.Stdout, "%4d %s\n", occurrences, prevLine)
		} else {
			fmt.Fprintln(env.Stdout, prevLine)
		}
	}
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			prevLine, occurrences, first = line, 1, false
			continue
		}
		if line == prevLine {
			occurrences++
		} else {
			flush()
			prevLine, occurrences = line, 1
		}
	}
	if !first {
		flush()
	}
	return 0
}

func wcCmd(ctx context.Context, env *ExecutionEnv, args []string) int {
	fs := pflag.NewFlagSet("wc", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	linesOnly := fs.BoolP("lines", "l", false, "print line count only")
	wordsOnly := fs.BoolP("words", "w", false, "print word count only")
	bytesOnly := fs.BoolP("bytes", "c", false, "print byte count only")
	if err := fs.Parse(ReorderArgsForFlags(fs, args)); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}

	var filename string
	if fs.NArg() > 0 {
		filename = fs.Arg(0)
	}
	content, ok := readArgOrStdin(env, fs, "wc [-lwc] <file>")
	if !ok {
		return 1
	}

	showAll := !*linesOnly && !*wordsOnly && !*bytesOnly
	lines := strings.Count(content, "\n")
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		lines++
	}
	words := len(strings.Fields(content))
	size := len(content)

	var parts []string
	if showAll || *linesOnly {
		parts = append(parts, fmt.Sprintf("%d", lines))
	}
	if showAll || *wordsOnly {
		parts = append(parts, fmt.Sprintf("%d", words))
	}
	if showAll || *bytesOnly {
		parts = append(parts, fmt.Sprintf("%d", size))
	}
	out := strings.Join(parts, "\t")
	if filename != "" {
		out += "\t" + filename
	}
	fmt.Fprintln(env.Stdout, out)
	return 0
}

func headCmd(ctx context.Context, env *ExecutionEnv, args []string) int {
	fs := pflag.NewFlagSet("head", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	n := fs.IntP("lines", "n", 10, "number of lines to show")
	if err := fs.Parse(ReorderArgsForFlags(fs, args)); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}
	content, ok := readArgOrStdin(env, fs, "head [-n lines] <file>")
	if !ok {
		return 1
	}
	lines := splitDroppingTrailingBlank(content)
	count := *n
	if count > len(lines) {
		count = len(lines)
	}
	for i := 0; i < count; i++ {
		fmt.Fprintln(env.Stdout, lines[i])
	}
	return 0
}

func tailCmd(ctx context.Context, env *ExecutionEnv, args []string) int {
	fs := pflag.NewFlagSet("tail", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	n := fs.IntP("lines", "n", 10, "number of lines to show")
	if err := fs.Parse(ReorderArgsForFlags(fs, args)); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}
	content, ok := readArgOrStdin(env, fs, "tail [-n lines] <file>")
	if !ok {
		return 1
	}
	lines := splitDroppingTrailingBlank(content)
	count := *n
	start := len(lines) - count
	if start < 0 {
		start = 0
	}
	for i := start; i < len(lines); i++ {
		fmt.Fprintln(env.Stdout, lines[i])
	}
	return 0
}
