package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabrieldfa/tia/internal/config"
	"github.com/gabrieldfa/tia/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

// Poller waits for runs to leave the queued and in_progress states
type Poller struct {
	interval time.Duration
	maxWait  time.Duration
}

// NewPoller returns a poller that re-fetches a run every interval. A zero
// maxWait never gives up.
func NewPoller(interval, maxWait time.Duration) *Poller {
	if interval <= 0 {
		interval = config.DefaultRunPollInterval
	}
	return &Poller{interval: interval, maxWait: maxWait}
}

// IsPending reports whether the server may still change the run's status
func IsPending(status openai.RunStatus) bool {
	return status == openai.RunStatusQueued || status == openai.RunStatusInProgress
}

// AwaitCompletion re-fetches run until it reaches a terminal status and
// returns it in that status. Fetch errors are returned as is, without retry.
func (p *Poller) AwaitCompletion(ctx context.Context, api RunRetriever, threadID string, run openai.Run) (openai.Run, error) {
	parent := ctx
	if p.maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.maxWait)
		defer cancel()
	}

	fetches := 0
	for IsPending(run.Status) {
		next, err := api.RetrieveRun(ctx, threadID, run.ID)
		if err != nil {
			if p.timedOut(parent, ctx) {
				return run, fmt.Errorf("%w: run %s still %s after %s", ErrRunTimeout, run.ID, run.Status, p.maxWait)
			}
			return run, fmt.Errorf("failed to retrieve run %s: %w", run.ID, err)
		}
		run = next
		fetches++

		logger.Debug(logger.ASSISTANT, "Run %s is %s after %d fetches", run.ID, run.Status, fetches)

		if !IsPending(run.Status) {
			break
		}

		if err := p.wait(ctx); err != nil {
			if p.timedOut(parent, ctx) {
				return run, fmt.Errorf("%w: run %s still %s after %s", ErrRunTimeout, run.ID, run.Status, p.maxWait)
			}
			return run, err
		}
	}

	return run, nil
}

func (p *Poller) wait(ctx context.Context) error {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// timedOut distinguishes our own deadline from the caller's cancellation
func (p *Poller) timedOut(parent, bounded context.Context) bool {
	return p.maxWait > 0 && parent.Err() == nil && errors.Is(bounded.Err(), context.DeadlineExceeded)
}
