package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/interview-sim/interview-service/internal/capture"
	"github.com/interview-sim/interview-service/internal/models"
)

func answerStageSession(t *testing.T, m *Manager) string {
	t.Helper()
	snap := m.Create()
	_, err := m.SelectPosition(context.Background(), snap.ID, "前端开发")
	require.NoError(t, err)
	return snap.ID
}

func TestManager_RecordingFlowCommitsVideo(t *testing.T) {
	m, _, _ := newTestManager(&MockEvaluator{})
	id := answerStageSession(t, m)

	state, err := m.StartRecording(id, "q1", models.CaptureVideo)
	require.NoError(t, err)
	assert.Equal(t, capture.StatusRecording, state.Status)
	assert.Equal(t, "q1", state.QuestionID)

	require.NoError(t, m.PushChunk(id, models.CaptureVideo, []byte("frame-1")))
	require.NoError(t, m.PushChunk(id, models.CaptureVideo, []byte("frame-2")))

	state, err = m.StopRecording(id)
	require.NoError(t, err)
	assert.Equal(t, capture.StatusStopped, state.Status)

	modality, err := m.ActiveModality(id, "q1")
	require.NoError(t, err)
	assert.Equal(t, models.ModalityVideo, modality)

	snap, err := m.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, models.ModalityVideo, snap.AnsweredQuestions["q1"])
}

func TestManager_RecordingFlowCommitsAudio(t *testing.T) {
	m, _, _ := newTestManager(&MockEvaluator{})
	id := answerStageSession(t, m)

	_, err := m.StartRecording(id, "q2", models.CaptureAudio)
	require.NoError(t, err)
	require.NoError(t, m.PushChunk(id, models.CaptureAudio, []byte("pcm")))

	_, err = m.StopRecording(id)
	require.NoError(t, err)

	modality, err := m.ActiveModality(id, "q2")
	require.NoError(t, err)
	assert.Equal(t, models.ModalityAudio, modality)
}

func TestManager_StopWithoutChunksRejected(t *testing.T) {
	m, _, _ := newTestManager(&MockEvaluator{})
	id := answerStageSession(t, m)

	_, err := m.StartRecording(id, "q1", models.CaptureVideo)
	require.NoError(t, err)

	_, err = m.StopRecording(id)
	assert.ErrorIs(t, err, ErrNoClip)
}

func TestManager_StartRecordingUnknownQuestion(t *testing.T) {
	m, _, _ := newTestManager(&MockEvaluator{})
	id := answerStageSession(t, m)

	_, err := m.StartRecording(id, "ghost", models.CaptureVideo)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestManager_StartRecordingRequiresAnswerStage(t *testing.T) {
	m, _, _ := newTestManager(&MockEvaluator{})
	snap := m.Create()

	_, err := m.StartRecording(snap.ID, "q1", models.CaptureVideo)
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestManager_QuestionChangeTearsDownRecorder(t *testing.T) {
	m, _, _ := newTestManager(&MockEvaluator{})
	id := answerStageSession(t, m)

	_, err := m.StartRecording(id, "q1", models.CaptureVideo)
	require.NoError(t, err)
	require.NoError(t, m.PushChunk(id, models.CaptureVideo, []byte("frame")))

	_, err = m.SetCurrentQuestion(id, 1)
	require.NoError(t, err)

	state, err := m.RecorderState(id)
	require.NoError(t, err)
	assert.Equal(t, capture.StatusIdle, state.Status)

	// The discarded recording never became an answer.
	modality, err := m.ActiveModality(id, "q1")
	require.NoError(t, err)
	assert.Equal(t, models.ModalityNone, modality)
}

func TestManager_StartForDifferentQuestionReplacesRecorder(t *testing.T) {
	m, _, _ := newTestManager(&MockEvaluator{})
	id := answerStageSession(t, m)

	_, err := m.StartRecording(id, "q1", models.CaptureVideo)
	require.NoError(t, err)

	state, err := m.StartRecording(id, "q2", models.CaptureVideo)
	require.NoError(t, err)
	assert.Equal(t, "q2", state.QuestionID)
	assert.Equal(t, capture.StatusRecording, state.Status)
}

func TestManager_PushChunkWithoutRecording(t *testing.T) {
	m, _, _ := newTestManager(&MockEvaluator{})
	id := answerStageSession(t, m)

	err := m.PushChunk(id, models.CaptureVideo, []byte("frame"))
	assert.ErrorIs(t, err, capture.ErrNotRecording)
}

func TestManager_StopRecordingOnLockedQuestionSurfacesLock(t *testing.T) {
	m, _, _ := newTestManager(&MockEvaluator{})
	id := answerStageSession(t, m)

	// Audio is blocked once a text answer exists for the question.
	require.NoError(t, m.CommitText(id, "q1", "typed"))

	_, err := m.StartRecording(id, "q1", models.CaptureAudio)
	require.NoError(t, err)
	require.NoError(t, m.PushChunk(id, models.CaptureAudio, []byte("pcm")))

	_, err = m.StopRecording(id)
	require.Error(t, err)
}

func TestManager_SubmitTearsDownLiveRecorder(t *testing.T) {
	eval := &MockEvaluator{}
	eval.On("Evaluate", mock.Anything, mock.Anything).Return(&models.EvaluationResult{}, nil)
	m, _, _ := newTestManager(eval)
	id := answerStageSession(t, m)

	require.NoError(t, m.CommitText(id, "q1", "a1"))
	require.NoError(t, m.CommitText(id, "q2", "a2"))
	require.NoError(t, m.CommitText(id, "q3", "a3"))

	_, err := m.StartRecording(id, "q1", models.CaptureAudio)
	require.NoError(t, err)
	require.NoError(t, m.PushChunk(id, models.CaptureAudio, []byte("pcm")))

	snap, err := m.Submit(context.Background(), id, models.EvaluationBasic)
	require.NoError(t, err)
	assert.Equal(t, models.StageResult, snap.Stage)

	// Entering Result released the capture stream along with the recorder.
	state, err := m.RecorderState(id)
	require.NoError(t, err)
	assert.Equal(t, capture.StatusIdle, state.Status)
	assert.ErrorIs(t, m.PushChunk(id, models.CaptureAudio, []byte("late")), capture.ErrNotRecording)
}
