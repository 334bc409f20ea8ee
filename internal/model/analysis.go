package model

// AnalyzeRequest represents the request body for script/video analysis
type AnalyzeRequest struct {
	Script        string `json:"script" validate:"required,min=1,max=20000"`
	VideoBase64   string `json:"videoBase64" validate:"omitempty,base64"`
	VideoMimeType string `json:"videoMimeType" validate:"required_with=VideoBase64,omitempty,oneof=video/mp4 video/webm video/quicktime"`
}

// AnalysisResult is the structured brief produced by the multimodal model
type AnalysisResult struct {
	Summary     string `json:"summary"`
	Mood        string `json:"mood"`
	Title       string `json:"title"`
	MusicPrompt string `json:"music_prompt"`
}
