package model

// WebSocket frame types pushed to soundtrack-job subscribers
const (
	WSMessageTypeProgress = "progress"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage is the minimal frame, used for ping/pong keep-alive
type WSMessage struct {
	Type string `json:"type"`
}

// WSProgressMessage reports one progress tick of a soundtrack job: the
// worker's 0..100 percent derived from the poll loop plus the step text
// shown to the user
type WSProgressMessage struct {
	Type        string    `json:"type"`
	JobID       string    `json:"jobId"`
	Progress    int       `json:"progress"`
	Status      JobStatus `json:"status"`
	CurrentStep string    `json:"currentStep,omitempty"`
}

// WSCompleteMessage delivers the finished score inline, so a subscriber does
// not need a follow-up result fetch
type WSCompleteMessage struct {
	Type   string               `json:"type"`
	JobID  string               `json:"jobId"`
	Result *ScoreResultResponse `json:"result"`
}

// WSErrorMessage reports a failed job. The error shape mirrors the HTTP
// envelope in pkg/response
type WSErrorMessage struct {
	Type  string  `json:"type"`
	JobID string  `json:"jobId"`
	Error WSError `json:"error"`
}

// WSError carries the error code and message of a failed job
type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
