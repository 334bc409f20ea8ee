package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/clipscore/api/internal/client"
	"github.com/clipscore/api/internal/config"
	"github.com/clipscore/api/internal/model"
	"github.com/clipscore/api/internal/service"
	"github.com/clipscore/api/internal/websocket"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ScoreWorker processes soundtrack generation jobs
type ScoreWorker struct {
	scoreService    *service.ScoreService
	analysisService *service.AnalysisService
	sunoClient      *client.SunoClient
	storage         client.StorageClient
	hub             *websocket.Hub
	sunoCfg         *config.SunoConfig
}

// NewScoreWorker creates a new score worker
func NewScoreWorker(
	scoreService *service.ScoreService,
	analysisService *service.AnalysisService,
	sunoClient *client.SunoClient,
	storage client.StorageClient,
	hub *websocket.Hub,
	sunoCfg *config.SunoConfig,
) *ScoreWorker {
	return &ScoreWorker{
		scoreService:    scoreService,
		analysisService: analysisService,
		sunoClient:      sunoClient,
		storage:         storage,
		hub:             hub,
		sunoCfg:         sunoCfg,
	}
}

// ProcessTask handles score task processing
func (w *ScoreWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var taskPayload struct {
		JobID   string          `json:"jobId"`
		Payload json.RawMessage `json:"payload"`
	}

	if err := json.Unmarshal(t.Payload(), &taskPayload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	jobID := taskPayload.JobID
	log.Printf("Starting score job: %s", jobID)

	var payload model.ScoreJobPayload
	if err := json.Unmarshal(taskPayload.Payload, &payload); err != nil {
		w.failJob(ctx, jobID, "Invalid payload")
		return fmt.Errorf("failed to unmarshal score payload: %w", err)
	}

	if w.sunoClient == nil || !w.sunoClient.IsConfigured() {
		return w.processWithMock(ctx, jobID, &payload)
	}

	return w.processWithSuno(ctx, jobID, &payload)
}

// processWithSuno runs the real analysis → generation → polling flow
func (w *ScoreWorker) processWithSuno(ctx context.Context, jobID string, payload *model.ScoreJobPayload) error {
	// Hard wall-clock limit on the whole analysis+generation flow.
	ctx, cancel := context.WithTimeout(ctx, w.sunoCfg.GenerationTimeout)
	defer cancel()

	// Step 1: Analyze the script into a music brief
	w.updateProgress(ctx, jobID, 5, "Analyzing script...")
	brief, err := w.analysisService.Analyze(ctx, &model.AnalyzeRequest{
		Script:        payload.Script,
		VideoBase64:   payload.VideoBase64,
		VideoMimeType: payload.VideoMimeType,
	})
	if err != nil {
		w.failJob(ctx, jobID, fmt.Sprintf("Script analysis failed: %v", err))
		return err
	}

	title := payload.Title
	if title == "" {
		title = brief.Title
	}

	// Step 2: Submit the generation job
	w.updateProgress(ctx, jobID, 15, "Submitting music generation...")
	taskID, err := w.sunoClient.GenerateMusic(ctx, &client.GenerateMusicRequest{
		Prompt:       brief.MusicPrompt,
		Style:        payload.Style,
		Title:        title,
		Instrumental: payload.Instrumental,
	})
	if err != nil {
		w.failJob(ctx, jobID, fmt.Sprintf("Music generation failed: %v", err))
		return err
	}

	// Step 3: Poll until the task reaches a terminal state. The reporter
	// bridges poll-loop progress into the job store and the WebSocket hub,
	// and doubles as the cancellation check between attempts.
	tracks, err := w.sunoClient.PollForTracks(ctx, taskID, client.PollOptions{
		Interval:      w.sunoCfg.PollInterval,
		MaxAttempts:   w.sunoCfg.PollMaxAttempts,
		ErrorBudget:   w.sunoCfg.PollErrorBudget,
		GraceAttempts: w.sunoCfg.PollGraceAttempts,
		OnProgress: client.ProgressFunc(func(message string, fraction float64) {
			if w.scoreService.IsCanceled(ctx, jobID) {
				cancel()
				return
			}
			// Polling covers the 20..90% span of the job.
			w.updateProgress(ctx, jobID, 20+int(fraction*70), message)
		}),
	})
	if err != nil {
		if ctx.Err() != nil && w.scoreService.IsCanceled(context.Background(), jobID) {
			log.Printf("Score job %s canceled", jobID)
			return nil
		}
		w.failJob(ctx, jobID, fmt.Sprintf("Music generation failed: %v", err))
		return err
	}

	// Step 4: Archive tracks so results outlive upstream URL expiry
	w.updateProgress(ctx, jobID, 92, "Archiving tracks...")
	results, archivedKeys := w.archiveTracks(ctx, jobID, tracks)

	// Step 5: Assemble and store the result
	w.updateProgress(ctx, jobID, 95, "Finalizing...")
	result := &model.ScoreResultResponse{
		ID:        uuid.New().String(),
		Title:     title,
		Mood:      brief.Mood,
		Summary:   brief.Summary,
		Prompt:    brief.MusicPrompt,
		Tracks:    results,
		CreatedAt: time.Now(),
	}

	if err := w.scoreService.CompleteJob(ctx, jobID, result); err != nil {
		w.discardArchives(archivedKeys)
		w.failJob(ctx, jobID, "Failed to save result")
		return err
	}

	w.hub.BroadcastComplete(jobID, result)
	log.Printf("Score job %s completed with %d tracks", jobID, len(results))
	return nil
}

// processWithMock produces a canned result when no generation API is
// configured, for local development
func (w *ScoreWorker) processWithMock(ctx context.Context, jobID string, payload *model.ScoreJobPayload) error {
	steps := []struct {
		progress int
		step     string
		duration time.Duration
	}{
		{10, "Analyzing script...", 1 * time.Second},
		{30, "Submitting music generation...", 1 * time.Second},
		{55, "Waiting in the generation queue...", 2 * time.Second},
		{80, "Generating audio...", 2 * time.Second},
		{95, "Finalizing...", 1 * time.Second},
	}

	for _, step := range steps {
		select {
		case <-ctx.Done():
			log.Printf("Score job %s cancelled", jobID)
			return ctx.Err()
		default:
		}

		if w.scoreService.IsCanceled(ctx, jobID) {
			log.Printf("Score job %s canceled", jobID)
			return nil
		}

		w.updateProgress(ctx, jobID, step.progress, step.step)
		time.Sleep(step.duration)
	}

	// The analysis client can be configured while the generation client is
	// not; a failed analysis call must not take the mock flow down with it.
	brief, err := w.analysisService.Analyze(ctx, &model.AnalyzeRequest{Script: payload.Script})
	if err != nil {
		log.Printf("Score job %s: analysis failed on mock path, using canned brief: %v", jobID, err)
		brief = &model.AnalysisResult{
			Summary:     payload.Script,
			Mood:        string(model.MoodUplifting),
			Title:       "Untitled Score",
			MusicPrompt: "Uplifting cinematic instrumental with warm strings, gentle piano and a steady build",
		}
	}

	result := &model.ScoreResultResponse{
		ID:      uuid.New().String(),
		Title:   brief.Title,
		Mood:    brief.Mood,
		Summary: brief.Summary,
		Prompt:  brief.MusicPrompt,
		Tracks: []model.TrackResult{
			{
				ID:       uuid.New().String(),
				AudioURL: fmt.Sprintf("https://cdn.clipscore.dev/mock/%s.mp3", jobID),
				Title:    brief.Title,
				Duration: 120,
			},
		},
		CreatedAt: time.Now(),
	}

	if err := w.scoreService.CompleteJob(ctx, jobID, result); err != nil {
		w.failJob(ctx, jobID, "Failed to save result")
		return err
	}

	w.hub.BroadcastComplete(jobID, result)
	log.Printf("Score job %s completed (mock)", jobID)
	return nil
}

// archiveTracks re-hosts finished audio in object storage when configured.
// Archival failures are not fatal; the upstream URL still works for a while.
// The returned keys identify the objects actually written.
func (w *ScoreWorker) archiveTracks(ctx context.Context, jobID string, tracks []client.Track) ([]model.TrackResult, []string) {
	results := make([]model.TrackResult, 0, len(tracks))
	var archivedKeys []string
	for i, t := range tracks {
		r := model.TrackResult{
			ID:       t.ID,
			AudioURL: t.AudioURL,
			ImageURL: t.ImageURL,
			Title:    t.Title,
			Prompt:   t.Prompt,
			Duration: t.Duration,
		}
		if w.storage != nil {
			key := fmt.Sprintf("scores/%s/%d-%s.mp3", jobID, i, t.ID)
			archived, err := w.storage.ArchiveFromURL(ctx, key, t.AudioURL)
			if err != nil {
				log.Printf("Failed to archive track %s: %v", t.ID, err)
			} else {
				r.ArchiveURL = archived
				archivedKeys = append(archivedKeys, key)
			}
		}
		results = append(results, r)
	}
	return results, archivedKeys
}

// discardArchives removes archived objects for a job whose result could not
// be stored, so the bucket does not accumulate unreachable audio.
func (w *ScoreWorker) discardArchives(keys []string) {
	if w.storage == nil {
		return
	}
	ctx := context.Background()
	for _, key := range keys {
		if err := w.storage.Delete(ctx, key); err != nil {
			log.Printf("Failed to delete archived object %s: %v", key, err)
		}
	}
}

func (w *ScoreWorker) updateProgress(ctx context.Context, jobID string, progress int, step string) {
	if err := w.scoreService.UpdateJobProgress(ctx, jobID, progress, step); err != nil {
		log.Printf("Failed to update progress: %v", err)
	}
	w.hub.BroadcastProgress(jobID, progress, model.JobStatusRunning, step)
}

func (w *ScoreWorker) failJob(ctx context.Context, jobID, errMsg string) {
	// The flow context may already be expired when a timeout is what failed
	// the job; the failure must still be recorded.
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	if err := w.scoreService.FailJob(ctx, jobID, errMsg); err != nil {
		log.Printf("Failed to mark job as failed: %v", err)
	}
	w.hub.BroadcastError(jobID, "SCORE_FAILED", errMsg)
}
