package evaluator

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interview-sim/interview-service/internal/models"
)

func samplePayload() *models.MultiModalPayload {
	return &models.MultiModalPayload{
		Position: "前端开发",
		TextData: []models.TextData{{
			QuestionID: "q1",
			Question:   "什么是虚拟DOM",
			Answer:     "JS对象树",
		}},
		AudioData: []models.AudioData{},
		VideoData: []models.VideoData{},
	}
}

func TestClient_EvaluatePostsJSON(t *testing.T) {
	score := 78.5
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/interview/evaluate-enhanced", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload models.MultiModalPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "前端开发", payload.Position)
		require.Len(t, payload.TextData, 1)
		assert.Equal(t, "q1", payload.TextData[0].QuestionID)

		json.NewEncoder(w).Encode(models.EvaluationResult{TotalScore: &score})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, slog.Default())

	result, err := client.Evaluate(context.Background(), samplePayload())
	require.NoError(t, err)
	require.NotNil(t, result.TotalScore)
	assert.Equal(t, 78.5, *result.TotalScore)
}

func TestClient_EvaluateWithVideoPostsMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/interview/evaluate-enhanced-with-video", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		var payload models.MultiModalPayload
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("multimodalData")), &payload))
		assert.Equal(t, "前端开发", payload.Position)

		file, header, err := r.FormFile("videoFile")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "sess-q1.webm", header.Filename)

		json.NewEncoder(w).Encode(models.EvaluationResult{})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, slog.Default())

	rawFile := &models.RawFile{
		Filename: "sess-q1.webm",
		MimeType: "video/webm",
		Data:     []byte("webm-bytes"),
	}
	_, err := client.EvaluateWithVideo(context.Background(), samplePayload(), rawFile)
	require.NoError(t, err)
}

func TestClient_NonSuccessStatusIsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, slog.Default())

	_, err := client.Evaluate(context.Background(), samplePayload())
	assert.ErrorIs(t, err, ErrRejected)
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL, time.Second, slog.Default())

	_, err := client.Evaluate(context.Background(), samplePayload())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_MalformedResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, slog.Default())

	_, err := client.Evaluate(context.Background(), samplePayload())
	assert.Error(t, err)
}
