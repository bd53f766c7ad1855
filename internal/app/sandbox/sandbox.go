// Package sandbox runs untrusted student code in a throwaway working
// directory with a hard wall-clock timeout.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
)

// Result carries whatever the program produced, even on failure; partial
// output before a timeout is still useful feedback for the student.
type Result struct {
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration_ms"`
	TimedOut bool          `json:"timed_out"`
}

// Runner executes a source snippet for a named language.
type Runner interface {
	Run(ctx context.Context, language, code, stdin string) (*Result, error)
}

// LanguageSpec describes how to materialize and invoke one language's code.
type LanguageSpec struct {
	FileName string
	Command  string
	Args     []string // {file} is replaced with the source path
}

// DefaultLanguages covers the classroom curriculum. Arduino sketches are
// syntax-checked with the CLI rather than flashed to a board.
func DefaultLanguages() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		"python": {
			FileName: "main.py",
			Command:  "python3",
			Args:     []string{"{file}"},
		},
		"arduino": {
			FileName: "sketch.ino",
			Command:  "arduino-cli",
			Args:     []string{"compile", "--fqbn", "arduino:avr:uno", "{file}"},
		},
	}
}

// Local runs code as a subprocess on the host. WorkDir defaults to the
// system temp directory; tests point it somewhere inspectable.
type Local struct {
	Languages map[string]LanguageSpec
	Timeout   time.Duration
	WorkDir   string
}

func NewLocal(timeout time.Duration) *Local {
	return &Local{
		Languages: DefaultLanguages(),
		Timeout:   timeout,
	}
}

func (l *Local) Run(ctx context.Context, language, code, stdin string) (*Result, error) {
	spec, ok := l.Languages[language]
	if !ok {
		return nil, common.Errorf("%w: unsupported language %q", common.ErrValidation, language)
	}
	if code == "" {
		return nil, common.Errorf("%w: code is required", common.ErrValidation)
	}

	dir, err := os.MkdirTemp(l.WorkDir, "run-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	srcPath := filepath.Join(dir, spec.FileName)
	if err := os.WriteFile(srcPath, []byte(code), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write source file: %w", err)
	}

	args := make([]string, len(spec.Args))
	for i, a := range spec.Args {
		if a == "{file}" {
			args[i] = srcPath
		} else {
			args[i] = a
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, spec.Command, args...)
	cmd.Dir = dir
	if stdin != "" {
		cmd.Stdin = bytes.NewBufferString(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.ExitCode = -1
		return result, common.Errorf("%w: execution exceeded %s", common.ErrTimedOut, l.Timeout)
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// Non-zero exit is a program outcome, not a runner failure.
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("failed to run %s: %w", spec.Command, runErr)
	}
	return result, nil
}
