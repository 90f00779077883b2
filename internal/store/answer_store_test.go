package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interview-sim/interview-service/internal/models"
)

func audioClip() *models.Clip {
	return &models.Clip{
		Kind:            models.CaptureAudio,
		MimeType:        "audio/webm",
		Data:            []byte("audio-bytes"),
		DurationSeconds: 12,
	}
}

func videoClip() *models.Clip {
	return &models.Clip{
		Kind:            models.CaptureVideo,
		MimeType:        "video/webm",
		Data:            []byte("video-bytes"),
		DurationSeconds: 30,
	}
}

func TestAnswerStore_TextCommitAndReplace(t *testing.T) {
	s := NewAnswerStore()

	require.NoError(t, s.CommitText("q1", "first draft"))
	require.NoError(t, s.CommitText("q1", "second draft"))

	ans, ok := s.Text("q1")
	require.True(t, ok)
	assert.Equal(t, "second draft", ans.Text)
	assert.Equal(t, models.ModalityText, s.ActiveModality("q1"))
}

func TestAnswerStore_AudioLocksText(t *testing.T) {
	s := NewAnswerStore()

	require.NoError(t, s.CommitAudio("q1", audioClip()))

	err := s.CommitText("q1", "too late")
	assert.ErrorIs(t, err, ErrModalityLocked)
	assert.Equal(t, models.ModalityAudio, s.ActiveModality("q1"))
}

func TestAnswerStore_TextLocksAudio(t *testing.T) {
	s := NewAnswerStore()

	require.NoError(t, s.CommitText("q1", "typed"))

	err := s.CommitAudio("q1", audioClip())
	assert.ErrorIs(t, err, ErrModalityLocked)
	assert.Equal(t, models.ModalityText, s.ActiveModality("q1"))
}

func TestAnswerStore_VideoIsNeverBlocked(t *testing.T) {
	s := NewAnswerStore()

	require.NoError(t, s.CommitText("q1", "typed"))
	require.NoError(t, s.CommitVideo("q1", videoClip(), nil))

	assert.Equal(t, models.ModalityVideo, s.ActiveModality("q1"))
}

func TestAnswerStore_VideoLocksTextAndAudio(t *testing.T) {
	s := NewAnswerStore()

	require.NoError(t, s.CommitVideo("q1", videoClip(), nil))

	assert.ErrorIs(t, s.CommitText("q1", "typed"), ErrModalityLocked)
	assert.ErrorIs(t, s.CommitAudio("q1", audioClip()), ErrModalityLocked)
	assert.Equal(t, models.ModalityVideo, s.ActiveModality("q1"))
}

func TestAnswerStore_VideoOutranksEarlierSpokenAnswer(t *testing.T) {
	s := NewAnswerStore()

	require.NoError(t, s.CommitAudio("q1", audioClip()))
	require.NoError(t, s.CommitVideo("q1", videoClip(), nil))

	// The audio answer still exists but is no longer authoritative.
	_, ok := s.Audio("q1")
	assert.True(t, ok)
	assert.Equal(t, models.ModalityVideo, s.ActiveModality("q1"))
}

func TestAnswerStore_ActiveModalityNoneForUnanswered(t *testing.T) {
	s := NewAnswerStore()
	assert.Equal(t, models.ModalityNone, s.ActiveModality("missing"))
}

func TestAnswerStore_IsComplete(t *testing.T) {
	s := NewAnswerStore()
	questions := []models.Question{{ID: "q1"}, {ID: "q2"}, {ID: "q3"}}

	assert.False(t, s.IsComplete(questions))

	require.NoError(t, s.CommitText("q1", "typed"))
	require.NoError(t, s.CommitAudio("q2", audioClip()))
	assert.False(t, s.IsComplete(questions))

	require.NoError(t, s.CommitVideo("q3", videoClip(), nil))
	assert.True(t, s.IsComplete(questions))
}

func TestAnswerStore_IsCompleteEmptyQuestionList(t *testing.T) {
	s := NewAnswerStore()
	assert.True(t, s.IsComplete(nil))
}

func TestAnswerStore_Modalities(t *testing.T) {
	s := NewAnswerStore()

	require.NoError(t, s.CommitText("q1", "typed"))
	require.NoError(t, s.CommitAudio("q2", audioClip()))
	require.NoError(t, s.CommitVideo("q2", videoClip(), nil))

	got := s.Modalities()
	assert.Equal(t, map[string]models.Modality{
		"q1": models.ModalityText,
		"q2": models.ModalityVideo,
	}, got)
}

func TestAnswerStore_Reset(t *testing.T) {
	s := NewAnswerStore()

	require.NoError(t, s.CommitText("q1", "typed"))
	require.NoError(t, s.CommitVideo("q2", videoClip(), nil))

	s.Reset()

	assert.Equal(t, models.ModalityNone, s.ActiveModality("q1"))
	assert.Equal(t, models.ModalityNone, s.ActiveModality("q2"))
	assert.Empty(t, s.Modalities())

	// Locks do not survive a reset.
	require.NoError(t, s.CommitText("q2", "fresh start"))
}
