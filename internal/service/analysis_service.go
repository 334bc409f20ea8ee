package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clipscore/api/internal/client"
	"github.com/clipscore/api/internal/model"
)

// ScriptAnalyzer defines the interface for turning a script (and optional
// video) into a music-generation brief
type ScriptAnalyzer interface {
	Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.AnalysisResult, error)
}

// AnalysisService produces music briefs from scripts using a multimodal model
type AnalysisService struct {
	analysisClient *client.AnalysisClient
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(analysisClient *client.AnalysisClient) *AnalysisService {
	return &AnalysisService{
		analysisClient: analysisClient,
	}
}

// Analyze runs one synchronous analysis round trip and parses the structured
// brief out of the model response.
func (s *AnalysisService) Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.AnalysisResult, error) {
	// Use mock response if client is not configured
	if s.analysisClient == nil || !s.analysisClient.IsConfigured() {
		return s.analyzeMock(req)
	}

	parts := []client.ContentPart{client.TextPart(s.buildUserPrompt(req.Script))}
	if req.VideoBase64 != "" {
		parts = append(parts, client.VideoPart(req.VideoMimeType, req.VideoBase64))
	}

	response, err := s.analysisClient.ChatCompletion(ctx, s.buildSystemPrompt(), parts)
	if err != nil {
		return nil, fmt.Errorf("AI analysis failed: %w", err)
	}

	result, err := s.parseAnalysisResponse(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return result, nil
}

func (s *AnalysisService) buildSystemPrompt() string {
	return `You are a film-music supervisor with expertise in matching soundtracks to narrative content.
Given a video script (and the video itself when attached), produce a brief for a music generation model.
Always output your response as valid JSON in the exact format requested.
Do not include any text outside the JSON structure.`
}

func (s *AnalysisService) buildUserPrompt(script string) string {
	return fmt.Sprintf(`Analyze the following video script and design a matching soundtrack brief.

Script:
%s

Describe the pacing, emotional arc and imagery, then write a detailed prompt for a music generation model
covering genre, instrumentation, tempo and dynamics.

Output as JSON: {"summary": "...", "mood": "...", "title": "...", "music_prompt": "..."}`, script)
}

func (s *AnalysisService) parseAnalysisResponse(response string) (*model.AnalysisResult, error) {
	response = extractJSON(response)

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}

	if result.MusicPrompt == "" {
		return nil, fmt.Errorf("no music prompt in response")
	}

	if mood, ok := model.CanonicalMood(result.Mood); ok {
		result.Mood = string(mood)
	}

	return &result, nil
}

// extractJSON attempts to extract JSON from a response that may contain extra text
func extractJSON(s string) string {
	// Find the first { and last }
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")

	if start != -1 && end != -1 && end > start {
		return s[start : end+1]
	}
	return s
}

// Mock implementation for development/testing
func (s *AnalysisService) analyzeMock(req *model.AnalyzeRequest) (*model.AnalysisResult, error) {
	summary := req.Script
	if len(summary) > 120 {
		summary = summary[:120] + "..."
	}

	return &model.AnalysisResult{
		Summary:     summary,
		Mood:        string(model.MoodUplifting),
		Title:       "Untitled Score",
		MusicPrompt: "Uplifting cinematic instrumental with warm strings, gentle piano and a steady build",
	}, nil
}
