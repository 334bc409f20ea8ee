package worker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/clipscore/api/internal/client"
	"github.com/clipscore/api/internal/config"
	"github.com/clipscore/api/internal/model"
	"github.com/clipscore/api/internal/service"
	"github.com/clipscore/api/internal/websocket"
)

type fakeStorage struct {
	archived []string
	deleted  []string
}

func (f *fakeStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (f *fakeStorage) ArchiveFromURL(ctx context.Context, key, srcURL string) (string, error) {
	f.archived = append(f.archived, key)
	return "https://cdn.test/" + key, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

func TestArchiveTracksAndDiscard(t *testing.T) {
	storage := &fakeStorage{}
	w := NewScoreWorker(nil, nil, nil, storage, websocket.NewHub(), &config.SunoConfig{})

	tracks := []client.Track{
		{ID: "t1", AudioURL: "https://x/a.mp3"},
		{ID: "t2", AudioURL: "https://x/b.mp3"},
	}

	results, keys := w.archiveTracks(context.Background(), "job-1", tracks)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 archived keys, got %d", len(keys))
	}
	if results[0].ArchiveURL != "https://cdn.test/scores/job-1/0-t1.mp3" {
		t.Errorf("unexpected archive url %q", results[0].ArchiveURL)
	}
	if keys[1] != "scores/job-1/1-t2.mp3" {
		t.Errorf("unexpected key %q", keys[1])
	}

	w.discardArchives(keys)
	if len(storage.deleted) != 2 {
		t.Fatalf("expected 2 deletes, got %d", len(storage.deleted))
	}
	for i, key := range keys {
		if storage.deleted[i] != key {
			t.Errorf("delete %d: expected key %q, got %q", i, key, storage.deleted[i])
		}
	}
}

func TestArchiveTracksWithoutStorage(t *testing.T) {
	w := NewScoreWorker(nil, nil, nil, nil, websocket.NewHub(), &config.SunoConfig{})

	results, keys := w.archiveTracks(context.Background(), "job-1", []client.Track{
		{ID: "t1", AudioURL: "https://x/a.mp3"},
	})
	if len(results) != 1 || results[0].ArchiveURL != "" {
		t.Errorf("expected pass-through result without archive url, got %+v", results)
	}
	if len(keys) != 0 {
		t.Errorf("expected no archived keys, got %v", keys)
	}
	w.discardArchives(keys)
}

func TestMockPathSurvivesAnalysisFailure(t *testing.T) {
	// Half-configured deployment: generation unconfigured (mock path), but a
	// configured analysis client whose upstream answers 500. The flow must
	// fall back to a canned brief instead of dereferencing a nil result.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model down"))
	}))
	defer srv.Close()

	// Unreachable redis: job-store writes fail and are tolerated as logs.
	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:1"})
	scoreService := service.NewScoreService(redisClient, nil)
	analysisService := service.NewAnalysisService(
		client.NewAnalysisClient(&config.AnalysisConfig{APIKey: "k", BaseURL: srv.URL}))
	sunoClient := client.NewSunoClient(&config.SunoConfig{})

	hub := websocket.NewHub()
	go hub.Run()

	w := NewScoreWorker(scoreService, analysisService, sunoClient, nil, hub, &config.SunoConfig{})

	payload, err := json.Marshal(model.ScoreJobPayload{Script: "a scene"})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	taskBody, err := json.Marshal(map[string]interface{}{
		"jobId":   "job-1",
		"payload": json.RawMessage(payload),
	})
	if err != nil {
		t.Fatalf("failed to marshal task body: %v", err)
	}

	// The staged mock flow must run to its end without panicking; the final
	// CompleteJob error from the unreachable store is acceptable.
	_ = w.ProcessTask(context.Background(), asynq.NewTask(service.TaskTypeScore, taskBody))
}
