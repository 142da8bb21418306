package action

import (
	"context"
	"time"

	"github.com/PixPMusic/gopher-trigger/internal/effector"
)

// ShellAction runs a shell command through a Runner. A non-zero timeout
// caps the process runtime; the dispatch engine imposes no timeout of its
// own.
type ShellAction struct {
	node
	runner  effector.Runner
	command string
	timeout time.Duration
}

// NewShellAction creates a shell-command leaf.
func NewShellAction(desc string, runner effector.Runner, command string, timeout time.Duration) *ShellAction {
	return &ShellAction{node: newNode(desc), runner: runner, command: command, timeout: timeout}
}

func (a *ShellAction) Execute(ctx context.Context, in Input) error {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	_, err := a.runner.Run(ctx, a.command)
	return err
}
