package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Run executes the dexview command line with the process streams.
func Run(ctx context.Context, args []string) (int, error) {
	return RunWithDeps(ctx, &Deps{}, args)
}

// RunWithDeps executes the command line with deps, which tests use to inject
// streams and a logger. Cancellation maps to exit code 130.
func RunWithDeps(ctx context.Context, deps *Deps, args []string) (int, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if deps == nil {
		deps = &Deps{}
	}
	defer deps.shutdown()

	cmd := NewRootCmd(deps)
	cmd.SetArgs(args)
	if deps.In != nil {
		cmd.SetIn(deps.In)
	}
	if deps.Out != nil {
		cmd.SetOut(deps.Out)
	}
	if deps.Err != nil {
		cmd.SetErr(deps.Err)
	}

	if err := cmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return 130, err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", renderUserError(err, deps))
		return 1, err
	}
	return 0, nil
}
