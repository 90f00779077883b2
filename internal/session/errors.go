package session

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrPositionRequired blocks SelectPosition -> Answer without a position.
	ErrPositionRequired = errors.New("position is required")
	// ErrIncompleteAnswers blocks Answer -> Result until every question has
	// a committed answer.
	ErrIncompleteAnswers = errors.New("all questions must be answered before evaluation")
	// ErrEvaluationInFlight rejects a second transition while the remote
	// evaluation call of this session is unresolved.
	ErrEvaluationInFlight = errors.New("an evaluation is already in flight for this session")
	// ErrInvalidStage means the requested transition is not defined from the
	// session's current stage.
	ErrInvalidStage = errors.New("transition not allowed from current stage")
	// ErrNoResult blocks Result -> Analysis when no evaluation result exists.
	ErrNoResult = errors.New("no evaluation result available")
	// ErrQuestionNotFound means the question ID is not part of this session.
	ErrQuestionNotFound = errors.New("question not part of this session")
	// ErrNoClip means a recorder stop was requested with nothing recorded.
	ErrNoClip = errors.New("no recorded clip available")
)
