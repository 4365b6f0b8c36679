package api

import (
	"bytes"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolabapp/audiolab-server/internal/domain"
	"github.com/audiolabapp/audiolab-server/internal/engine"
	"github.com/audiolabapp/audiolab-server/internal/http/response"
	"github.com/audiolabapp/audiolab-server/internal/ratelimit"
	"github.com/audiolabapp/audiolab-server/internal/search"
	"github.com/audiolabapp/audiolab-server/internal/service"
	"github.com/audiolabapp/audiolab-server/internal/store"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.Open(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	idx, err := search.NewIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, idx.Close())
	})

	svc := service.NewAudioService(st, engine.NewStubEngines(logger), idx, logger)

	return NewServer(svc, idx, nil, logger)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()

	var envelope struct {
		Data    jsontext.Value `json:"data"`
		Success bool           `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "response not successful: %s", w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

func createAudioViaAPI(t *testing.T, srv *Server, duration float64) domain.Audio {
	t.Helper()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/audio", map[string]any{
		"file_path": "/inbox/test.wav",
		"format":    "wav",
		"duration":  duration,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var audio domain.Audio
	decodeData(t, w, &audio)
	return audio
}

func TestHealthCheck(t *testing.T) {
	srv := setupTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	decodeData(t, w, &health)
	assert.Equal(t, "ok", health.Status)
	assert.True(t, health.Search)
}

func TestDocsEndpoint(t *testing.T) {
	// Middleware, plain chi handlers, and huma-registered routes all
	// share one mux; construction must not trip chi's middleware-after-
	// routes check.
	srv := setupTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/docs", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateAndGetAudio(t *testing.T) {
	srv := setupTestServer(t)

	audio := createAudioViaAPI(t, srv, 45.5)
	assert.Equal(t, 45.5, audio.Duration)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/audio/"+audio.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var loaded domain.Audio
	decodeData(t, w, &loaded)
	assert.Equal(t, audio.ID, loaded.ID)
}

func TestCreateAudio_ValidationError(t *testing.T) {
	srv := setupTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/audio", map[string]any{
		"file_path": "/inbox/test.mid",
		"format":    "midi",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestGetAudio_NotFound(t *testing.T) {
	srv := setupTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/audio/aud-missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReduceNoise_Created(t *testing.T) {
	srv := setupTestServer(t)
	audio := createAudioViaAPI(t, srv, 60)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/audio/"+audio.ID+"/reduce-noise", map[string]any{
		"strength": 0.6,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var derived domain.Audio
	decodeData(t, w, &derived)
	assert.NotEqual(t, audio.ID, derived.ID)
}

func TestReduceNoise_StrengthOutOfRange(t *testing.T) {
	srv := setupTestServer(t)
	audio := createAudioViaAPI(t, srv, 60)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/audio/"+audio.ID+"/reduce-noise", map[string]any{
		"strength": 1.5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConvertFormat_StatusDistinguishesNoOp(t *testing.T) {
	srv := setupTestServer(t)
	audio := createAudioViaAPI(t, srv, 60)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/audio/"+audio.ID+"/convert", map[string]any{
		"format": "mp3",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var converted domain.Audio
	decodeData(t, w, &converted)
	assert.Equal(t, domain.FormatMP3, converted.Format)

	// Converting to the current format returns the source record, 200.
	w = doJSON(t, srv, http.MethodPost, "/api/v1/audio/"+converted.ID+"/convert", map[string]any{
		"format": "mp3",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var same domain.Audio
	decodeData(t, w, &same)
	assert.Equal(t, converted.ID, same.ID)
}

func TestDetectLanguageAndTranscribe(t *testing.T) {
	srv := setupTestServer(t)
	audio := createAudioViaAPI(t, srv, 60)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/audio/"+audio.ID+"/detect-language", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var detectResp DetectLanguageResponse
	decodeData(t, w, &detectResp)
	assert.Equal(t, audio.ID, detectResp.AudioID)
	assert.True(t, detectResp.Language.Valid())

	w = doJSON(t, srv, http.MethodPost, "/api/v1/audio/"+audio.ID+"/transcribe", map[string]any{
		"language_hint": "german",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var transcribeResp TranscribeResponse
	decodeData(t, w, &transcribeResp)
	assert.Contains(t, transcribeResp.Transcript, "german")

	// Annotations land on the same record.
	w = doJSON(t, srv, http.MethodGet, "/api/v1/audio/"+audio.ID, nil)
	var loaded domain.Audio
	decodeData(t, w, &loaded)
	assert.Equal(t, transcribeResp.Transcript, loaded.Transcript)
	assert.Equal(t, detectResp.Language, loaded.DetectedLanguage)
}

func TestSplitByTime_ReturnsSegments(t *testing.T) {
	srv := setupTestServer(t)
	audio := createAudioViaAPI(t, srv, 10)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/audio/"+audio.ID+"/split", map[string]any{
		"timestamps": []float64{3, 7},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var segments []domain.Segment
	decodeData(t, w, &segments)
	require.Len(t, segments, 3)
	assert.Equal(t, 0.0, segments[0].StartTime)
	assert.Equal(t, 10.0, segments[2].EndTime)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/segments/"+segments[0].ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSplitByTime_InvalidTimestamps(t *testing.T) {
	srv := setupTestServer(t)
	audio := createAudioViaAPI(t, srv, 10)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/audio/"+audio.ID+"/split", map[string]any{
		"timestamps": []float64{3, 3},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMergeSegments_EmptyList(t *testing.T) {
	srv := setupTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/segments/merge", map[string]any{
		"segment_ids": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMergeSegments_EndToEnd(t *testing.T) {
	srv := setupTestServer(t)
	audio := createAudioViaAPI(t, srv, 10)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/audio/"+audio.ID+"/split", map[string]any{
		"timestamps": []float64{4},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var segments []domain.Segment
	decodeData(t, w, &segments)
	require.Len(t, segments, 2)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/segments/merge", map[string]any{
		"segment_ids": []string{segments[0].ID, segments[1].ID},
		"crossfade":   0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var merged domain.Audio
	decodeData(t, w, &merged)
	assert.InDelta(t, 10.0, merged.Duration, 1e-9)
}

func TestSynthesize(t *testing.T) {
	srv := setupTestServer(t)

	text := "Hello from the synthesizer."
	w := doJSON(t, srv, http.MethodPost, "/api/v1/synthesize", map[string]any{
		"text":  text,
		"voice": "narrator",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var audio domain.Audio
	decodeData(t, w, &audio)
	assert.InDelta(t, 0.07*float64(len(text)), audio.Duration, 1e-9)
}

func TestSynthesize_MissingText(t *testing.T) {
	srv := setupTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/synthesize", map[string]any{
		"voice": "narrator",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchTranscripts(t *testing.T) {
	srv := setupTestServer(t)
	audio := createAudioViaAPI(t, srv, 60)

	// Transcribing indexes the transcript.
	w := doJSON(t, srv, http.MethodPost, "/api/v1/audio/"+audio.ID+"/transcribe", map[string]any{
		"language_hint": "english",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/search?q=Transcribed", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Hits)
	assert.Equal(t, audio.ID, resp.Hits[0].ID)
}

func TestRateLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.Open(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	svc := service.NewAudioService(st, engine.NewStubEngines(logger), nil, logger)

	limiter := ratelimit.New(1, 1)
	t.Cleanup(limiter.Stop)

	srv := NewServer(svc, nil, limiter, logger)

	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
