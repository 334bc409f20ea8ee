package model

import "time"

// ScoreStartRequest represents the request body to start a soundtrack job
type ScoreStartRequest struct {
	Script        string `json:"script" validate:"required,min=1,max=20000"`
	VideoBase64   string `json:"videoBase64" validate:"omitempty,base64"`
	VideoMimeType string `json:"videoMimeType" validate:"required_with=VideoBase64,omitempty,oneof=video/mp4 video/webm video/quicktime"`
	Style         string `json:"style" validate:"omitempty,max=200"`
	Title         string `json:"title" validate:"omitempty,max=120"`
	Instrumental  bool   `json:"instrumental"`
}

// ScoreStartResponse represents the response after queuing a soundtrack job
type ScoreStartResponse struct {
	JobID     string    `json:"jobId"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScoreStatusResponse represents the current state of a soundtrack job
type ScoreStatusResponse struct {
	JobID       string     `json:"jobId"`
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"`
	CurrentStep string     `json:"currentStep,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	RetryCount  int        `json:"retryCount"`
}

// TrackResult is one finished audio track in a score result
type TrackResult struct {
	ID         string  `json:"id"`
	AudioURL   string  `json:"audioUrl"`
	ArchiveURL string  `json:"archiveUrl,omitempty"`
	ImageURL   string  `json:"imageUrl,omitempty"`
	Title      string  `json:"title,omitempty"`
	Prompt     string  `json:"prompt,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
}

// ScoreResultResponse represents the result of a completed soundtrack job
type ScoreResultResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title,omitempty"`
	Mood      string        `json:"mood,omitempty"`
	Summary   string        `json:"summary,omitempty"`
	Prompt    string        `json:"prompt"`
	Tracks    []TrackResult `json:"tracks"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ScoreCancelResponse represents the response to a cancel request
type ScoreCancelResponse struct {
	Success bool      `json:"success"`
	JobID   string    `json:"jobId"`
	Status  JobStatus `json:"status"`
}
