package client

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when a request is attempted without an API key.
var ErrMissingAPIKey = errors.New("suno API key is not configured")

// RequestError is a transport-level failure: the endpoint answered with a
// non-2xx HTTP status.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("suno API error (status %d): %s", e.StatusCode, e.Body)
}

// BusinessError is a 2xx HTTP response whose payload carries a non-200
// business code.
type BusinessError struct {
	Code    int
	Message string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("suno API business error (code %d): %s", e.Code, e.Message)
}

// MalformedResponseError is a response the client cannot interpret at all,
// e.g. a submission payload with no task id under any accepted key.
type MalformedResponseError struct {
	Reason string
	Body   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed suno API response: %s", e.Reason)
}

// GenerationFailedError is a terminal FAILED state declared by the upstream.
type GenerationFailedError struct {
	TaskID  string
	Message string
}

func (e *GenerationFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("music generation failed for task %s", e.TaskID)
	}
	return fmt.Sprintf("music generation failed for task %s: %s", e.TaskID, e.Message)
}

// RepeatedFailureError is raised when the consecutive-error budget is
// exhausted during polling. Individual transient failures are never surfaced;
// only their cumulative exhaustion is, wrapping the last one observed.
type RepeatedFailureError struct {
	TaskID   string
	Failures int
	LastErr  error
}

func (e *RepeatedFailureError) Error() string {
	return fmt.Sprintf("polling task %s failed %d times in a row: %v", e.TaskID, e.Failures, e.LastErr)
}

func (e *RepeatedFailureError) Unwrap() error { return e.LastErr }

// IncompleteSuccessError is a declared SUCCESS whose payload contains no track
// with a usable audio URL, after the grace window has run out.
type IncompleteSuccessError struct {
	TaskID string
}

func (e *IncompleteSuccessError) Error() string {
	return fmt.Sprintf("task %s reported success but returned no playable tracks", e.TaskID)
}

// PollTimeoutError is raised when the attempt budget is exhausted before a
// terminal state. LastStatus carries the most recent normalized status for
// diagnostics, and may be nil if no attempt ever parsed.
type PollTimeoutError struct {
	TaskID     string
	Attempts   int
	LastStatus *NormalizedStatus
}

func (e *PollTimeoutError) Error() string {
	last := "none"
	if e.LastStatus != nil {
		last = string(e.LastStatus.Status)
	}
	return fmt.Sprintf("task %s did not finish within %d attempts (last status: %s)", e.TaskID, e.Attempts, last)
}
