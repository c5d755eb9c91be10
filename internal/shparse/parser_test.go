package shparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintsh/flintsh/internal/shtoken"
)

func TestParse_EmptyLine(t *testing.T) {
	for _, line := range []string{"", "   ", "\t"} {
		_, cmd, err := Parse(line)
		require.NoError(t, err)
		assert.Nil(t, cmd)
	}
}

func TestParse_SimpleCommand(t *testing.T) {
	_, cmd, err := Parse("echo hello world")
	require.NoError(t, err)
	require.Len(t, cmd.Entries, 1)
	seq := cmd.Entries[0].Seq
	require.Len(t, seq.Commands, 1)
	sc := seq.Commands[0]
	require.NotNil(t, sc.CmdWord)
	assert.Equal(t, "echo", sc.CmdWord.Text)
	require.Len(t, sc.Args, 2)
	assert.Equal(t, "hello", sc.Args[0].Text)
	assert.Equal(t, "world", sc.Args[1].Text)
}

func TestParse_PrefixAssignment(t *testing.T) {
	_, cmd, err := Parse("A=42 echo $A")
	require.NoError(t, err)
	sc := cmd.Entries[0].Seq.Commands[0]
	require.Len(t, sc.Assignments, 1)
	assert.Equal(t, "A", sc.Assignments[0].Identifier)
	assert.Equal(t, "42", sc.Assignments[0].Value.Text)
	assert.Equal(t, "echo", sc.CmdWord.Text)
	require.Len(t, sc.Args, 1)
	assert.Equal(t, "$A", sc.Args[0].Text)
}

func TestParse_PureAssignment(t *testing.T) {
	_, cmd, err := Parse("A=42")
	require.NoError(t, err)
	sc := cmd.Entries[0].Seq.Commands[0]
	require.Len(t, sc.Assignments, 1)
	assert.Nil(t, sc.CmdWord)
	assert.Empty(t, sc.Args)
}

func TestParse_AssignmentEmptyValue(t *testing.T) {
	_, cmd, err := Parse("A=")
	require.NoError(t, err)
	sc := cmd.Entries[0].Seq.Commands[0]
	require.Len(t, sc.Assignments, 1)
	assert.Equal(t, "", sc.Assignments[0].Value.Text)
}

func TestParse_Pipeline(t *testing.T) {
	_, cmd, err := Parse("cat file.txt | grep foo | wc -l")
	require.NoError(t, err)
	seq := cmd.Entries[0].Seq
	require.Len(t, seq.Commands, 3)
	assert.Equal(t, "cat", seq.Commands[0].CmdWord.Text)
	assert.Equal(t, "grep", seq.Commands[1].CmdWord.Text)
	assert.Equal(t, "wc", seq.Commands[2].CmdWord.Text)
}

func TestParse_Redirect(t *testing.T) {
	_, cmd, err := Parse("echo hi > out.txt")
	require.NoError(t, err)
	sc := cmd.Entries[0].Seq.Commands[0]
	require.NotNil(t, sc.RedirectOp)
	assert.Equal(t, shtoken.RedirectTruncate, sc.RedirectOp.Text)
	require.NotNil(t, sc.RedirectArg)
	assert.Equal(t, "out.txt", sc.RedirectArg.Text)
}

func TestParse_AppendRedirectNoSpace(t *testing.T) {
	_, cmd, err := Parse("echo hi >>out.txt")
	require.NoError(t, err)
	sc := cmd.Entries[0].Seq.Commands[0]
	require.NotNil(t, sc.RedirectOp)
	assert.Equal(t, shtoken.RedirectAppend, sc.RedirectOp.Text)
	assert.Equal(t, "out.txt", sc.RedirectArg.Text)
}

func TestParse_ChainOperators(t *testing.T) {
	_, cmd, err := Parse("cmd1; cmd2 & cmd3")
	require.NoError(t, err)
	require.Len(t, cmd.Entries, 3)
	assert.Equal(t, shtoken.ChainSeq, cmd.Entries[0].Op)
	assert.Equal(t, shtoken.ChainBg, cmd.Entries[1].Op)
	assert.Equal(t, shtoken.ChainNone, cmd.Entries[2].Op)
}

func TestParse_TrailingPunctuator(t *testing.T) {
	_, cmd, err := Parse("cmd &")
	require.NoError(t, err)
	require.Len(t, cmd.Entries, 1)
	assert.Equal(t, shtoken.ChainBg, cmd.Entries[0].Op)
}

func TestParse_SolitaryPunctuatorIsError(t *testing.T) {
	_, _, err := Parse(";")
	require.Error(t, err)
	var perr *shtoken.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParse_EmptyPipeStageIsError(t *testing.T) {
	_, _, err := Parse("cmd1 | | cmd2")
	require.Error(t, err)
}

func TestParse_QuotingKinds(t *testing.T) {
	_, cmd, err := Parse(`echo 'a b' "c $d" ` + "`e f`" + ` \x`)
	require.NoError(t, err)
	sc := cmd.Entries[0].Seq.Commands[0]
	require.Len(t, sc.Args, 4)
	require.Len(t, sc.Args[0].Parts, 1)
	assert.Equal(t, shtoken.SingleQuoted, sc.Args[0].Parts[0].Kind)
	assert.Equal(t, `'a b'`, sc.Args[0].Text)

	require.Len(t, sc.Args[1].Parts, 1)
	assert.Equal(t, shtoken.DoubleQuoted, sc.Args[1].Parts[0].Kind)
	assert.Equal(t, `"c $d"`, sc.Args[1].Text)

	require.Len(t, sc.Args[2].Parts, 1)
	assert.Equal(t, shtoken.BacktickWord, sc.Args[2].Parts[0].Kind)
	assert.Equal(t, "`e f`", sc.Args[2].Text)

	require.Len(t, sc.Args[3].Parts, 1)
	assert.Equal(t, shtoken.Escaped, sc.Args[3].Parts[0].Kind)
	assert.Equal(t, `\x`, sc.Args[3].Text)
}

func TestParse_TouchingPartsFormOneWord(t *testing.T) {
	_, cmd, err := Parse(`echo foo"bar"'baz'`)
	require.NoError(t, err)
	sc := cmd.Entries[0].Seq.Commands[0]
	require.Len(t, sc.Args, 1)
	assert.Equal(t, `foo"bar"'baz'`, sc.Args[0].Text)
	require.Len(t, sc.Args[0].Parts, 3)
	assert.Equal(t, shtoken.UnquotedWord, sc.Args[0].Parts[0].Kind)
	assert.Equal(t, shtoken.DoubleQuoted, sc.Args[0].Parts[1].Kind)
	assert.Equal(t, shtoken.SingleQuoted, sc.Args[0].Parts[2].Kind)
}

func TestParse_UnclosedQuoteIsError(t *testing.T) {
	_, _, err := Parse(`echo "unterminated`)
	require.Error(t, err)
}

func TestParseWithinDoubleQuotes(t *testing.T) {
	leaves, err := ParseWithinDoubleQuotes(`hi $there \" and ` + "`date`")
	require.NoError(t, err)
	require.NotEmpty(t, leaves)

	var sawEscaped, sawBacktick bool
	for _, l := range leaves {
		switch l.Kind {
		case shtoken.Escaped:
			sawEscaped = true
		case shtoken.BacktickWord:
			sawBacktick = true
		}
	}
	assert.True(t, sawEscaped)
	assert.True(t, sawBacktick)
}
