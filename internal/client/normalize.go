package client

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// TaskStatus is the canonical generation-task state. Upstream API revisions
// report many more strings; everything normalizes into one of these five.
type TaskStatus string

const (
	StatusPending TaskStatus = "PENDING"
	StatusPartial TaskStatus = "PARTIAL"
	StatusSuccess TaskStatus = "SUCCESS"
	StatusFailed  TaskStatus = "FAILED"
	StatusUnknown TaskStatus = "UNKNOWN"
)

// Track is one generated audio track in its canonical form.
type Track struct {
	ID       string  `json:"id"`
	AudioURL string  `json:"audioUrl"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Title    string  `json:"title,omitempty"`
	Prompt   string  `json:"prompt,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// NormalizedStatus is the canonical projection of one status response,
// regardless of which upstream schema revision produced it.
type NormalizedStatus struct {
	Status       TaskStatus
	Fraction     float64 // completion hint derived from the upstream sub-stage
	Tracks       []Track
	ErrorMessage string
}

// statusMap collapses the status strings observed across upstream API
// revisions. Anything not listed normalizes to UNKNOWN, which is treated as
// non-terminal so an unrecognized but valid response never aborts a task.
var statusMap = map[string]TaskStatus{
	"PENDING":               StatusPending,
	"SUBMITTED":             StatusPending,
	"QUEUED":                StatusPending,
	"CREATE_TASK":           StatusPending,
	"PROCESSING":            StatusPending,
	"TEXT_SUCCESS":          StatusPartial,
	"FIRST_SUCCESS":         StatusPartial,
	"STREAMING":             StatusPartial,
	"SUCCESS":               StatusSuccess,
	"ALL_SUCCESS":           StatusSuccess,
	"COMPLETE":              StatusSuccess,
	"COMPLETED":             StatusSuccess,
	"CREATE_TASK_FAILED":    StatusFailed,
	"GENERATE_AUDIO_FAILED": StatusFailed,
	"CALLBACK_EXCEPTION":    StatusFailed,
	"SENSITIVE_WORD_ERROR":  StatusFailed,
	"FAILED":                StatusFailed,
	"ERROR":                 StatusFailed,
}

// stageFractions maps upstream sub-stages to a completion hint. The values
// only need to be monotone along the PENDING → TEXT → FIRST_AUDIO → SUCCESS
// progression; the poll loop clamps them to never decrease within a session.
var stageFractions = map[string]float64{
	"PENDING":       0.15,
	"SUBMITTED":     0.15,
	"QUEUED":        0.15,
	"CREATE_TASK":   0.15,
	"PROCESSING":    0.25,
	"TEXT_SUCCESS":  0.4,
	"STREAMING":     0.55,
	"FIRST_SUCCESS": 0.7,
	"SUCCESS":       1.0,
	"ALL_SUCCESS":   1.0,
	"COMPLETE":      1.0,
	"COMPLETED":     1.0,
}

func normalizeStatusString(s string) TaskStatus {
	if st, ok := statusMap[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return st
	}
	return StatusUnknown
}

func stageFraction(s string) float64 {
	if f, ok := stageFractions[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return f
	}
	return 0
}

// normalizeRecordInfo maps the `data` portion of a record-info response into
// a NormalizedStatus. It tolerates three generations of the upstream schema:
//
//  1. data is an object with `response.sunoData` holding the track list
//     (current API; sunoData is occasionally a JSON-encoded string)
//  2. data is an object with a legacy `data` array of tracks
//  3. data is itself a flat array of track records, each carrying its own
//     status string
//
// The most specific location wins; candidate locations are never merged.
func normalizeRecordInfo(data json.RawMessage) (*NormalizedStatus, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, &MalformedResponseError{Reason: "empty data payload"}
	}

	if strings.HasPrefix(trimmed, "[") {
		return normalizeFlatArray(data)
	}

	var obj struct {
		Status       string          `json:"status"`
		ErrorMessage string          `json:"errorMessage"`
		ErrorMsg     string          `json:"error_message"`
		Response     json.RawMessage `json:"response"`
		Data         json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, &MalformedResponseError{Reason: "data is neither object nor array", Body: trimmed}
	}

	ns := &NormalizedStatus{
		Status:       normalizeStatusString(obj.Status),
		Fraction:     stageFraction(obj.Status),
		ErrorMessage: obj.ErrorMessage,
	}
	if ns.ErrorMessage == "" {
		ns.ErrorMessage = obj.ErrorMsg
	}

	// Track list resolution order: response.sunoData first, legacy data
	// array as the fallback.
	if len(obj.Response) > 0 {
		var resp struct {
			SunoData json.RawMessage `json:"sunoData"`
		}
		if err := json.Unmarshal(obj.Response, &resp); err == nil && len(resp.SunoData) > 0 {
			ns.Tracks = parseTrackList(resp.SunoData)
			return ns, nil
		}
	}
	if len(obj.Data) > 0 {
		ns.Tracks = parseTrackList(obj.Data)
	}
	return ns, nil
}

func normalizeFlatArray(data json.RawMessage) (*NormalizedStatus, error) {
	var entries []map[string]interface{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &MalformedResponseError{Reason: "flat track array did not parse"}
	}

	ns := &NormalizedStatus{Status: StatusUnknown}
	if len(entries) > 0 {
		if s := firstString(entries[0], "status", "state"); s != "" {
			ns.Status = normalizeStatusString(s)
			ns.Fraction = stageFraction(s)
		}
		ns.ErrorMessage = firstString(entries[0], "errorMessage", "error_message", "msg")
	}
	ns.Tracks = tracksFromEntries(entries)
	return ns, nil
}

// parseTrackList decodes a track list that may be a JSON array or a
// JSON-encoded string containing one (older API revisions double-encode it).
func parseTrackList(raw json.RawMessage) []Track {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "\"") {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil
		}
		raw = json.RawMessage(inner)
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return tracksFromEntries(entries)
}

// tracksFromEntries resolves per-track field-name variants. Output order
// matches the upstream array order.
func tracksFromEntries(entries []map[string]interface{}) []Track {
	var tracks []Track
	for _, e := range entries {
		t := Track{
			ID:       firstString(e, "id", "audioId", "audio_id", "song_id"),
			AudioURL: firstString(e, "audioUrl", "audio_url", "sourceAudioUrl", "source_audio_url", "streamAudioUrl", "stream_audio_url"),
			ImageURL: firstString(e, "imageUrl", "image_url", "sourceImageUrl", "source_image_url"),
			Title:    firstString(e, "title"),
			Prompt:   firstString(e, "prompt", "gpt_description_prompt"),
			Duration: firstFloat(e, "duration", "audio_duration"),
		}
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		tracks = append(tracks, t)
	}
	return tracks
}

// playableTracks filters to tracks with a usable audio URL, preserving order.
// A track without one is disqualified from the returned set.
func playableTracks(tracks []Track) []Track {
	var out []Track
	for _, t := range tracks {
		if strings.TrimSpace(t.AudioURL) != "" {
			out = append(out, t)
		}
	}
	return out
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func firstFloat(m map[string]interface{}, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if f, ok := v.(float64); ok {
				return f
			}
		}
	}
	return 0
}
