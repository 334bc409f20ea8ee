package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clipscore/api/internal/config"
)

func TestGenerateMusicMissingAPIKey(t *testing.T) {
	c := NewSunoClient(&config.SunoConfig{BaseURL: "http://unused.invalid"})

	_, err := c.GenerateMusic(context.Background(), &GenerateMusicRequest{Prompt: "a song"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("GenerateMusic: expected ErrMissingAPIKey, got %v", err)
	}

	_, err = c.GetRecordInfo(context.Background(), "task-1")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("GetRecordInfo: expected ErrMissingAPIKey, got %v", err)
	}
}

func TestGenerateMusicSubmission(t *testing.T) {
	var captured struct {
		payload generatePayload
		auth    string
		path    string
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.auth = r.Header.Get("Authorization")
		captured.path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&captured.payload); err != nil {
			t.Errorf("failed to decode submission payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code": 200, "msg": "success", "data": {"taskId": "task-abc"}}`))
	}))
	defer srv.Close()

	c := NewSunoClient(&config.SunoConfig{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		Model:       "V4",
		CallbackURL: "https://cb.example/hook",
	})

	taskID, err := c.GenerateMusic(context.Background(), &GenerateMusicRequest{
		Prompt:       "an upbeat synthwave track",
		Style:        "synthwave",
		Title:        "Night Drive",
		Instrumental: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskID != "task-abc" {
		t.Errorf("expected task id task-abc, got %q", taskID)
	}
	if captured.path != "/api/v1/generate" {
		t.Errorf("unexpected path %q", captured.path)
	}
	if captured.auth != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", captured.auth)
	}
	if captured.payload.Prompt != "an upbeat synthwave track" {
		t.Errorf("prompt not forwarded: %q", captured.payload.Prompt)
	}
	if captured.payload.Model != "V4" {
		t.Errorf("model not forwarded: %q", captured.payload.Model)
	}
	if captured.payload.CallBackURL != "https://cb.example/hook" {
		t.Errorf("callback url not forwarded: %q", captured.payload.CallBackURL)
	}
	if !captured.payload.Instrumental {
		t.Error("instrumental flag not forwarded")
	}
}

func TestGenerateMusicTaskIDVariants(t *testing.T) {
	for _, body := range []string{
		`{"code": 200, "msg": "ok", "data": {"taskId": "task-abc"}}`,
		`{"code": 200, "msg": "ok", "data": {"task_id": "task-abc"}}`,
		`{"code": 200, "msg": "ok", "data": {"id": "task-abc"}}`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		c := newTestClient(t, srv.URL)
		taskID, err := c.GenerateMusic(context.Background(), &GenerateMusicRequest{Prompt: "x"})
		srv.Close()

		if err != nil {
			t.Errorf("body %s: unexpected error %v", body, err)
			continue
		}
		if taskID != "task-abc" {
			t.Errorf("body %s: expected task-abc, got %q", body, taskID)
		}
	}
}

func TestGenerateMusicErrorCases(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "http error",
			status: http.StatusTooManyRequests,
			body:   "rate limited",
			check: func(t *testing.T, err error) {
				var reqErr *RequestError
				if !errors.As(err, &reqErr) {
					t.Fatalf("expected RequestError, got %v", err)
				}
				if reqErr.StatusCode != http.StatusTooManyRequests {
					t.Errorf("expected status 429, got %d", reqErr.StatusCode)
				}
			},
		},
		{
			name:   "business error",
			status: http.StatusOK,
			body:   `{"code": 455, "msg": "insufficient credits", "data": null}`,
			check: func(t *testing.T, err error) {
				var bizErr *BusinessError
				if !errors.As(err, &bizErr) {
					t.Fatalf("expected BusinessError, got %v", err)
				}
				if bizErr.Code != 455 || bizErr.Message != "insufficient credits" {
					t.Errorf("unexpected business error: %+v", bizErr)
				}
			},
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   `<html>gateway timeout</html>`,
			check: func(t *testing.T, err error) {
				var malErr *MalformedResponseError
				if !errors.As(err, &malErr) {
					t.Fatalf("expected MalformedResponseError, got %v", err)
				}
			},
		},
		{
			name:   "no task id",
			status: http.StatusOK,
			body:   `{"code": 200, "msg": "ok", "data": {"something": "else"}}`,
			check: func(t *testing.T, err error) {
				var malErr *MalformedResponseError
				if !errors.As(err, &malErr) {
					t.Fatalf("expected MalformedResponseError, got %v", err)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			_, err := c.GenerateMusic(context.Background(), &GenerateMusicRequest{Prompt: "x"})
			if err == nil {
				t.Fatal("expected an error")
			}
			tc.check(t, err)
		})
	}
}

func TestGetRecordInfoPassesTaskID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("taskId"); got != "task with spaces" {
			t.Errorf("expected taskId query param, got %q", got)
		}
		w.Write([]byte(`{"code": 200, "msg": "ok", "data": {"status": "PENDING"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	status, err := c.GetRecordInfo(context.Background(), "task with spaces")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != StatusPending {
		t.Errorf("expected PENDING, got %s", status.Status)
	}
}

func TestIsConfigured(t *testing.T) {
	if NewSunoClient(&config.SunoConfig{}).IsConfigured() {
		t.Error("expected unconfigured without an api key")
	}
	if !NewSunoClient(&config.SunoConfig{APIKey: "k"}).IsConfigured() {
		t.Error("expected configured with an api key")
	}
}
