package model

import "time"

// Job represents a background job in the system
type Job struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"`
	CurrentStep string     `json:"currentStep,omitempty"`
	Error       *string    `json:"error,omitempty"`
	Payload     []byte     `json:"payload,omitempty"` // job input, stored as JSON
	Result      []byte     `json:"result,omitempty"`  // job output, stored as JSON
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	RetryCount  int        `json:"retryCount"`
}

// Job types
const (
	JobTypeScore = "score"
)

// ScoreJobPayload contains the data for a soundtrack generation job
type ScoreJobPayload struct {
	Script        string `json:"script"`
	VideoBase64   string `json:"videoBase64,omitempty"`
	VideoMimeType string `json:"videoMimeType,omitempty"`
	Style         string `json:"style,omitempty"`
	Title         string `json:"title,omitempty"`
	Instrumental  bool   `json:"instrumental"`
}
