package services

import (
	"errors"

	"github.com/interview-sim/interview-service/internal/capture"
	"github.com/interview-sim/interview-service/internal/evaluator"
	"github.com/interview-sim/interview-service/internal/session"
	"github.com/interview-sim/interview-service/internal/store"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrValidationFailed = errors.New("validation failed")

	// Question bank errors
	ErrPositionUnknown  = errors.New("no questions exist for this position")
	ErrQuestionNotFound = errors.New("question not found")
	ErrEmptyImport      = errors.New("import file contains no questions")
	ErrUnsupportedFile  = errors.New("unsupported import file format")

	// Generation task errors
	ErrTaskNotFound = errors.New("generation task not found")

	// Report errors
	ErrReportNotFound = errors.New("evaluation report not found")
)

// ===== ERROR CLASSIFIERS =====
// Handlers map errors to HTTP statuses through these so the mapping lives in
// one place.

// IsNotFound reports a missing-resource condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPositionUnknown) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrReportNotFound) ||
		errors.Is(err, session.ErrSessionNotFound) ||
		errors.Is(err, session.ErrQuestionNotFound)
}

// IsConflict reports a state the client can resolve by acting differently:
// a locked modality, an unfinished answer set, a busy recorder or session.
func IsConflict(err error) bool {
	return errors.Is(err, store.ErrModalityLocked) ||
		errors.Is(err, session.ErrIncompleteAnswers) ||
		errors.Is(err, session.ErrEvaluationInFlight) ||
		errors.Is(err, session.ErrInvalidStage) ||
		errors.Is(err, session.ErrNoResult) ||
		errors.Is(err, capture.ErrAlreadyRecording) ||
		errors.Is(err, capture.ErrNotRecording)
}

// IsDeviceFailure reports a capture acquisition failure the user can recover
// from locally (re-prompt, pick another device).
func IsDeviceFailure(err error) bool {
	return errors.Is(err, capture.ErrDeviceAccessDenied) ||
		errors.Is(err, capture.ErrDeviceUnavailable)
}

// IsEvaluatorFailure reports a failed remote evaluation call. The session
// stays in the Answer stage and the submit control is re-enabled.
func IsEvaluatorFailure(err error) bool {
	return errors.Is(err, evaluator.ErrUnavailable) ||
		errors.Is(err, evaluator.ErrRejected)
}

// IsBadRequest reports malformed or missing client input.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrEmptyImport) ||
		errors.Is(err, ErrUnsupportedFile) ||
		errors.Is(err, session.ErrPositionRequired) ||
		errors.Is(err, session.ErrNoClip)
}
