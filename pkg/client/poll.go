package client

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/serum-errors/go-serum"

	"github.com/cloudglass-tools/cloudglass/capi"
)

// PollConfig bounds a poll loop: fixed interval between checks, and a hard
// attempt ceiling after which the loop gives up.
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts uint64
}

// DefaultPollConfig matches the remote job status cadence.
var DefaultPollConfig = PollConfig{
	Interval:    3 * time.Second,
	MaxAttempts: 20,
}

// Poll runs check at a fixed interval until it reports completion, fails
// terminally, or the attempt budget runs out.  Check returns (true, nil)
// when the watched condition is done, (false, nil) to keep waiting, and an
// error to stop.  A job-failed error is terminal and comes back unchanged;
// any other error is retried until the budget runs out.
//
// Errors:
//
//    - cloudglass-error-job-failed -- passed through from check, never retried
//    - cloudglass-error-timeout -- when the attempt budget is exhausted,
//      carrying the last check failure as cause when there was one
func Poll(ctx context.Context, cfg PollConfig, what string, check func(context.Context) (bool, error)) error {
	strategy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.Interval), cfg.MaxAttempts),
		ctx,
	)
	// Retry unwraps Permanent before returning, so terminal failures come
	// back exactly as check produced them.
	err := backoff.Retry(func() error {
		done, err := check(ctx)
		if err != nil {
			if serum.Code(err) == capi.CodeJobFailed {
				return backoff.Permanent(err)
			}
			return err
		}
		if done {
			return nil
		}
		return capi.ErrorTimeout(what, cfg.MaxAttempts)
	}, strategy)

	if err == nil {
		return nil
	}
	switch serum.Code(err) {
	case capi.CodeJobFailed, capi.CodeTimeout:
		return err
	case "":
		// Not one of ours; context cancellation comes out this way.
		return err
	default:
		// The budget ran out while the checks themselves kept failing;
		// that is still a timeout, with the last failure as cause.
		return capi.ErrorTimeoutDuring(what, cfg.MaxAttempts, err)
	}
}
