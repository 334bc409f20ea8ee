package service

import (
	"context"
	"testing"

	"github.com/clipscore/api/internal/model"
)

func TestAnalyzeFallsBackToMock(t *testing.T) {
	svc := NewAnalysisService(nil)

	result, err := svc.Analyze(context.Background(), &model.AnalyzeRequest{
		Script: "A lone astronaut drifts past the rings of Saturn.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MusicPrompt == "" {
		t.Error("mock analysis must produce a music prompt")
	}
	if result.Mood == "" || result.Title == "" {
		t.Errorf("mock analysis incomplete: %+v", result)
	}
}

func TestParseAnalysisResponse(t *testing.T) {
	svc := NewAnalysisService(nil)

	cases := []struct {
		name     string
		response string
		wantErr  bool
	}{
		{
			name:     "clean json",
			response: `{"summary": "s", "mood": "tense", "title": "T", "music_prompt": "dark strings"}`,
		},
		{
			name:     "json wrapped in prose",
			response: "Here is the brief you asked for:\n```json\n{\"summary\": \"s\", \"mood\": \"tense\", \"title\": \"T\", \"music_prompt\": \"dark strings\"}\n```\nLet me know if you need changes.",
		},
		{
			name:     "no music prompt",
			response: `{"summary": "s", "mood": "tense"}`,
			wantErr:  true,
		},
		{
			name:     "not json at all",
			response: "I cannot help with that.",
			wantErr:  true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.parseAnalysisResponse(tc.response)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.MusicPrompt != "dark strings" {
				t.Errorf("unexpected prompt %q", result.MusicPrompt)
			}
			if result.Mood != "tense" || result.Title != "T" {
				t.Errorf("fields not parsed: %+v", result)
			}
		})
	}
}

func TestParseAnalysisMoodCanonicalized(t *testing.T) {
	svc := NewAnalysisService(nil)

	result, err := svc.parseAnalysisResponse(`{"summary": "s", "mood": " Tense ", "title": "T", "music_prompt": "p"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Mood != "tense" {
		t.Errorf("expected mood canonicalized to 'tense', got %q", result.Mood)
	}

	// A mood outside the known set is kept as the model wrote it
	result, err = svc.parseAnalysisResponse(`{"summary": "s", "mood": "Brooding Synthwave", "title": "T", "music_prompt": "p"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Mood != "Brooding Synthwave" {
		t.Errorf("expected unknown mood preserved, got %q", result.Mood)
	}
}

func TestAnalyzeMockTruncatesSummary(t *testing.T) {
	svc := NewAnalysisService(nil)

	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}

	result, err := svc.Analyze(context.Background(), &model.AnalyzeRequest{Script: string(long)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Summary) > 130 {
		t.Errorf("summary not truncated: %d chars", len(result.Summary))
	}
}
