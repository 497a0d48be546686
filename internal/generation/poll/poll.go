// Package poll drives submit-and-poll workflows: a remote job is checked on
// a fixed interval until it reports success or failure, or a wall-clock
// timeout elapses.
package poll

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultInterval = 4 * time.Second
	DefaultTimeout  = 2 * time.Minute
)

var (
	ErrTimeout = errors.New("poll: timed out waiting for job")
	ErrFailed  = errors.New("poll: job failed")
)

type Status string

const (
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusProcessing Status = "processing"
)

// Result is one observation of the remote job.
type Result struct {
	Status  Status   `json:"status"`
	URLs    []string `json:"urls,omitempty"`
	Message string   `json:"message,omitempty"`
}

func (r Result) Terminal() bool {
	return r.Status == StatusSuccess || r.Status == StatusFailed
}

// CheckFunc performs a single status request.
type CheckFunc func(ctx context.Context) (Result, error)

type Options struct {
	Interval time.Duration
	Timeout  time.Duration
	// OnPending, when set, sees every non-terminal observation.
	OnPending func(Result)
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Until calls check every Interval, starting one Interval after the call.
//
// It returns the success result with a nil error, the failed result with
// ErrFailed, the last observation with ErrTimeout once Timeout elapses, or
// ctx.Err() when the caller cancels. An error from check ends polling
// immediately and is returned as is.
func Until(ctx context.Context, opts Options, check CheckFunc) (Result, error) {
	opts = opts.withDefaults()

	pctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	var last Result
	for {
		select {
		case <-pctx.Done():
			return last, doneErr(ctx)
		case <-ticker.C:
		}

		res, err := check(pctx)
		if err != nil {
			if pctx.Err() != nil {
				return last, doneErr(ctx)
			}
			return last, err
		}
		last = res

		switch res.Status {
		case StatusSuccess:
			return res, nil
		case StatusFailed:
			return res, ErrFailed
		}
		if opts.OnPending != nil {
			opts.OnPending(res)
		}
	}
}

// doneErr distinguishes caller cancellation from our own deadline.
func doneErr(parent context.Context) error {
	if err := parent.Err(); err != nil {
		return err
	}
	return ErrTimeout
}
