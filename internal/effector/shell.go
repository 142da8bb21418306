package effector

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ShellRunner executes commands through the platform shell (PowerShell on
// Windows, bash/zsh on Unix).
type ShellRunner struct{}

// NewShellRunner creates a shell runner for the current platform.
func NewShellRunner() *ShellRunner {
	return &ShellRunner{}
}

// Run executes a command and returns its trimmed stdout. The context bounds
// the process runtime; a caller-supplied timeout kills the process.
func (r *ShellRunner) Run(ctx context.Context, command string) (string, error) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", command)
	case "darwin", "linux":
		shell := "/bin/bash"
		if runtime.GOOS == "darwin" {
			if _, err := exec.LookPath("zsh"); err == nil {
				shell = "/bin/zsh"
			}
		}
		cmd = exec.CommandContext(ctx, shell, "-c", command)
	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		errMsg := stderr.String()
		if errMsg != "" {
			return stdout.String(), fmt.Errorf("shell error: %s", strings.TrimSpace(errMsg))
		}
		return stdout.String(), fmt.Errorf("shell execution failed: %v", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Validate checks command syntax without executing it (bash -n on Unix).
func (r *ShellRunner) Validate(command string) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("empty command")
	}

	switch runtime.GOOS {
	case "windows":
		if strings.Contains(command, "\x00") {
			return fmt.Errorf("command contains null bytes")
		}
		return nil
	case "darwin", "linux":
		cmd := exec.Command("/bin/bash", "-n", "-c", command)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			errMsg := stderr.String()
			if errMsg != "" {
				return fmt.Errorf("syntax error: %s", strings.TrimSpace(errMsg))
			}
			return fmt.Errorf("validation failed: %v", err)
		}
		return nil
	default:
		return nil
	}
}
