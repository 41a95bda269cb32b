// Package exec validates invocations and dispatches them to command
// actions, building the execution context a command body is allowed to see.
package exec

import (
	"context"

	"github.com/cloudglass-tools/cloudglass/capi"
	"github.com/cloudglass-tools/cloudglass/pkg/logging"
	"github.com/cloudglass-tools/cloudglass/pkg/tracing"
)

// Middleware wraps a command action, in the order given to Chain.
type Middleware func(capi.ActionFunc) capi.ActionFunc

// Chain applies middlewares around an action; the first middleware is the
// outermost.
func Chain(action capi.ActionFunc, middlewares ...Middleware) capi.ActionFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		action = middlewares[i](action)
	}
	return action
}

// MiddlewareLogging makes sure a logger is present in the context before
// the action runs.
func MiddlewareLogging(log logging.Logger) Middleware {
	return func(next capi.ActionFunc) capi.ActionFunc {
		return func(ctx context.Context, rc *capi.RunContext, inv *capi.Invocation) error {
			return next(log.WithContext(ctx), rc, inv)
		}
	}
}

// MiddlewareTracingSpan opens a span named after the command which ends
// when the action returns, recording any failure on it.
func MiddlewareTracingSpan() Middleware {
	return func(next capi.ActionFunc) capi.ActionFunc {
		return func(ctx context.Context, rc *capi.RunContext, inv *capi.Invocation) error {
			ctx, span := tracing.Start(ctx, rc.Command.Name)
			defer span.End()
			err := next(ctx, rc, inv)
			if err != nil {
				tracing.SetSpanError(ctx, err)
			}
			return err
		}
	}
}

// Dispatch invokes a resolved command's action with the given execution
// context.  This is the command's only exit path: a nil return means
// success (process exit 0), anything else terminates the process with
// capi.ExitCode of the error.
//
// Errors:
//
//    - cloudglass-error-execution -- wrapping whatever the action reported,
//      preserving any exit code detail the cause carried
func Dispatch(ctx context.Context, cmd capi.Command, rc *capi.RunContext, inv *capi.Invocation, middlewares ...Middleware) error {
	action := Chain(cmd.Action(), middlewares...)
	if err := action(ctx, rc, inv); err != nil {
		wrapped := capi.ErrorExecution(rc.Command.Name, err)
		if code := capi.ExitCode(err); code != 1 {
			wrapped = capi.WithExitCode(wrapped, code)
		}
		return wrapped
	}
	return nil
}
