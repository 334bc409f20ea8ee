package client

import (
	"context"
	"errors"
	"log"
	"time"
)

// ProgressReporter receives progress notifications from the poll loop.
// Implementations must not block; notifications are fire-and-forget and run
// inline between poll attempts.
type ProgressReporter interface {
	Progress(message string, fraction float64)
}

// ProgressFunc adapts a plain function to the ProgressReporter interface.
type ProgressFunc func(message string, fraction float64)

func (f ProgressFunc) Progress(message string, fraction float64) { f(message, fraction) }

// PollOptions configures one polling session.
type PollOptions struct {
	// Interval is the fixed sleep between attempts. No backoff is applied;
	// the upstream queue latency dominates and a predictable cadence keeps
	// progress reporting smooth.
	Interval time.Duration
	// MaxAttempts is the total attempt budget before PollTimeoutError.
	MaxAttempts int
	// ErrorBudget is how many consecutive transient failures are tolerated
	// before RepeatedFailureError. The counter resets on any structurally
	// valid response, whatever the task status.
	ErrorBudget int
	// GraceAttempts bounds the window in which a SUCCESS with no playable
	// tracks is tolerated: polling continues while more than GraceAttempts
	// attempts remain, then IncompleteSuccessError surfaces. Zero means the
	// first empty SUCCESS near the end of the budget fails immediately.
	GraceAttempts int
	// OnProgress, when set, receives a human-readable message and a
	// monotonically non-decreasing completion fraction each attempt.
	OnProgress ProgressReporter
}

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxAttempts  = 60
	defaultErrorBudget  = 5
)

func (o PollOptions) withDefaults() PollOptions {
	if o.Interval <= 0 {
		o.Interval = defaultPollInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.ErrorBudget <= 0 {
		o.ErrorBudget = defaultErrorBudget
	}
	if o.GraceAttempts < 0 {
		o.GraceAttempts = 0
	}
	return o
}

// pollSession is the loop-local state of one PollForTracks call. It is owned
// by a single goroutine and discarded on return.
type pollSession struct {
	attempts          int
	consecutiveErrors int
	last              *NormalizedStatus
	maxFraction       float64
}

func (s *pollSession) report(r ProgressReporter, message string, fraction float64) {
	if fraction > s.maxFraction {
		s.maxFraction = fraction
	}
	if r != nil {
		r.Progress(message, s.maxFraction)
	}
}

// PollForTracks repeatedly reads the status of a generation task until it
// reaches a terminal state, then returns the playable tracks in upstream
// order. Transient upstream failures are swallowed up to the error budget.
// Cancel via ctx; cancellation is checked before every sleep.
func (c *SunoClient) PollForTracks(ctx context.Context, taskID string, opts PollOptions) ([]Track, error) {
	opts = opts.withDefaults()
	session := &pollSession{}

	for session.attempts < opts.MaxAttempts {
		select {
		case <-ctx.Done():
			log.Printf("[Suno API] Poll (task=%s) — context cancelled", taskID)
			return nil, ctx.Err()
		case <-time.After(opts.Interval):
		}
		session.attempts++

		status, err := c.GetRecordInfo(ctx, taskID)
		if err != nil {
			if !isTransient(err) {
				return nil, err
			}
			session.consecutiveErrors++
			log.Printf("[Suno API] Poll #%d (task=%s) — transient error %d/%d: %v",
				session.attempts, taskID, session.consecutiveErrors, opts.ErrorBudget, err)
			if session.consecutiveErrors >= opts.ErrorBudget {
				return nil, &RepeatedFailureError{TaskID: taskID, Failures: session.consecutiveErrors, LastErr: err}
			}
			session.report(opts.OnProgress, "Generation service hiccup, retrying...", 0)
			continue
		}

		// A structurally valid response proves connectivity is healthy,
		// whatever the task status says.
		session.consecutiveErrors = 0
		session.last = status

		log.Printf("[Suno API] Poll #%d (task=%s) — status: %s", session.attempts, taskID, status.Status)
		session.report(opts.OnProgress, statusMessage(status.Status), status.Fraction)

		switch status.Status {
		case StatusSuccess:
			tracks := playableTracks(status.Tracks)
			if len(tracks) > 0 {
				return tracks, nil
			}
			// Declared success with nothing playable. The track list
			// sometimes lags the status flip, so keep polling while the
			// grace window is open.
			if opts.MaxAttempts-session.attempts > opts.GraceAttempts {
				log.Printf("[Suno API] Poll #%d (task=%s) — success with no playable tracks yet", session.attempts, taskID)
				continue
			}
			return nil, &IncompleteSuccessError{TaskID: taskID}
		case StatusFailed:
			return nil, &GenerationFailedError{TaskID: taskID, Message: status.ErrorMessage}
		}
		// PENDING, PARTIAL, UNKNOWN: not terminal, keep going.
	}

	return nil, &PollTimeoutError{TaskID: taskID, Attempts: session.attempts, LastStatus: session.last}
}

// isTransient decides retry vs abort for one failed poll attempt. Transport
// failures, non-2xx statuses, business error codes and unparseable payloads
// are all retried against the error budget; a missing credential or a
// cancelled context never is.
func isTransient(err error) bool {
	if errors.Is(err, ErrMissingAPIKey) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

func statusMessage(s TaskStatus) string {
	switch s {
	case StatusPending:
		return "Waiting in the generation queue..."
	case StatusPartial:
		return "Generating audio..."
	case StatusSuccess:
		return "Generation complete"
	case StatusFailed:
		return "Generation failed"
	default:
		return "Waiting for the generation service..."
	}
}
