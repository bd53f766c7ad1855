package sandbox

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
)

// shRunner swaps the language table for /bin/sh so tests do not depend on a
// python install.
func shRunner(t *testing.T, timeout time.Duration) *Local {
	t.Helper()
	return &Local{
		Languages: map[string]LanguageSpec{
			"sh": {FileName: "main.sh", Command: "sh", Args: []string{"{file}"}},
		},
		Timeout: timeout,
		WorkDir: t.TempDir(),
	}
}

func TestRunCapturesOutput(t *testing.T) {
	runner := shRunner(t, 5*time.Second)

	result, err := runner.Run(context.Background(), "sh", "echo hello\necho oops >&2", "")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", result.Stdout)
	assert.Equal(t, "oops\n", result.Stderr)
	assert.Equal(t, 0, result.ExitCode)
	assert.False(t, result.TimedOut)
}

func TestRunReadsStdin(t *testing.T) {
	runner := shRunner(t, 5*time.Second)

	result, err := runner.Run(context.Background(), "sh", "read line; echo \"got $line\"", "ping\n")
	require.NoError(t, err)
	assert.Equal(t, "got ping\n", result.Stdout)
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	runner := shRunner(t, 5*time.Second)

	result, err := runner.Run(context.Background(), "sh", "exit 3", "")
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
}

func TestRunTimesOut(t *testing.T) {
	runner := shRunner(t, 300*time.Millisecond)

	result, err := runner.Run(context.Background(), "sh", "echo started\nwhile true; do :; done", "")
	require.ErrorIs(t, err, common.ErrTimedOut)
	require.NotNil(t, result)
	assert.True(t, result.TimedOut)
	assert.Equal(t, "started\n", result.Stdout, "partial output survives the kill")
}

func TestRunRejectsUnknownLanguage(t *testing.T) {
	runner := shRunner(t, time.Second)

	_, err := runner.Run(context.Background(), "cobol", "DISPLAY 'HI'.", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRunRejectsEmptyCode(t *testing.T) {
	runner := shRunner(t, time.Second)

	_, err := runner.Run(context.Background(), "sh", "", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRunCleansUpWorkDir(t *testing.T) {
	base := t.TempDir()
	runner := shRunner(t, 5*time.Second)
	runner.WorkDir = base

	_, err := runner.Run(context.Background(), "sh", "echo hi", "")
	require.NoError(t, err)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries, "per-run directory must be removed")
}

func TestRunCleansUpAfterTimeout(t *testing.T) {
	base := t.TempDir()
	runner := shRunner(t, 200*time.Millisecond)
	runner.WorkDir = base

	_, _ = runner.Run(context.Background(), "sh", "while true; do :; done", "")

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
