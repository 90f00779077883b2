package session

import (
	"fmt"

	"github.com/interview-sim/interview-service/internal/capture"
	"github.com/interview-sim/interview-service/internal/models"
)

// RecorderState is the recorder view exposed to clients: what is recording,
// for which question, and for how long.
type RecorderState struct {
	Status           capture.Status     `json:"status"`
	Kind             models.CaptureKind `json:"kind,omitempty"`
	QuestionID       string             `json:"question_id,omitempty"`
	ElapsedSeconds   int                `json:"elapsed_seconds"`
	SoftLimitSeconds int                `json:"soft_limit_seconds"`
}

// StartRecording begins a capture for one question. Starting for a different
// question tears down the previous recorder first; starting for the same
// question restarts the cycle and discards the previous clip.
func (m *Manager) StartRecording(id, questionID string, kind models.CaptureKind) (*RecorderState, error) {
	sess, err := m.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.stage != models.StageAnswer {
		return nil, ErrInvalidStage
	}
	if sess.evaluating {
		return nil, ErrEvaluationInFlight
	}
	if _, ok := sess.questionByID(questionID); !ok {
		return nil, ErrQuestionNotFound
	}

	if sess.recorder != nil && sess.recorderQID != questionID {
		sess.teardownRecorderLocked()
	}
	if sess.recorder == nil {
		sess.recorder = capture.NewRecorder(sess.devices, m.logger.With("session_id", sess.id))
	}

	if err := sess.recorder.Start(kind); err != nil {
		return nil, err
	}
	sess.recorderQID = questionID

	return recorderStateLocked(sess), nil
}

// PushChunk feeds one recorded chunk from the capture frontend into the live
// stream.
func (m *Manager) PushChunk(id string, kind models.CaptureKind, data []byte) error {
	sess, err := m.get(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	if sess.evaluating {
		sess.mu.Unlock()
		return ErrEvaluationInFlight
	}
	devices := sess.devices
	recording := sess.recorder != nil && sess.recorder.Status() == capture.StatusRecording
	sess.mu.Unlock()

	if !recording {
		return capture.ErrNotRecording
	}
	stream, ok := devices.Current(kind)
	if !ok {
		return capture.ErrNotRecording
	}
	return stream.Push(data)
}

// StopRecording finalizes the clip and commits it as the answer of the
// question the recording was started for: audio captures go through
// CommitAudio, video captures through CommitVideo with the raw bytes retained
// for the enhanced evaluation path.
func (m *Manager) StopRecording(id string) (*RecorderState, error) {
	sess, err := m.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.evaluating {
		return nil, ErrEvaluationInFlight
	}
	if sess.recorder == nil {
		return nil, capture.ErrNotRecording
	}

	clip, err := sess.recorder.Stop()
	if err != nil {
		return nil, err
	}
	if len(clip.Data) == 0 {
		return nil, ErrNoClip
	}

	questionID := sess.recorderQID
	switch clip.Kind {
	case models.CaptureVideo:
		rawFile := &models.RawFile{
			Filename: fmt.Sprintf("%s-%s.webm", sess.id, questionID),
			MimeType: clip.MimeType,
			Data:     clip.Data,
		}
		err = sess.answers.CommitVideo(questionID, clip, rawFile)
	default:
		err = sess.answers.CommitAudio(questionID, clip)
	}
	if err != nil {
		return nil, err
	}

	m.logger.Info("recording committed",
		"session_id", sess.id,
		"question_id", questionID,
		"kind", clip.Kind,
		"duration_seconds", clip.DurationSeconds)

	return recorderStateLocked(sess), nil
}

// RecorderState reports the live recorder of a session.
func (m *Manager) RecorderState(id string) (*RecorderState, error) {
	sess, err := m.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return recorderStateLocked(sess), nil
}

func recorderStateLocked(sess *Session) *RecorderState {
	state := &RecorderState{
		Status:           capture.StatusIdle,
		SoftLimitSeconds: capture.SoftLimitSeconds,
	}
	if sess.recorder != nil {
		state.Status = sess.recorder.Status()
		state.QuestionID = sess.recorderQID
		state.ElapsedSeconds = sess.recorder.ElapsedSeconds()
		if clip := sess.recorder.Clip(); clip != nil {
			state.Kind = clip.Kind
		}
	}
	return state
}
