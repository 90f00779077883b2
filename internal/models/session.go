package models

import "time"

// Stage is the position of a session in the four-step interview flow.
type Stage string

const (
	StageSelectPosition Stage = "select_position"
	StageAnswer         Stage = "answer"
	StageResult         Stage = "result"
	StageAnalysis       Stage = "analysis"
)

// EvaluationVariant selects which remote evaluation path a submission uses.
type EvaluationVariant string

const (
	// EvaluationBasic posts the multimodal payload as plain JSON.
	EvaluationBasic EvaluationVariant = "basic"
	// EvaluationEnhanced additionally forwards one raw video file so the
	// evaluator can run facial-expression and body-language analysis. Falls
	// back to the basic path when no committed video retains a raw file.
	EvaluationEnhanced EvaluationVariant = "enhanced"
)

// SessionSnapshot is the read-only view of a live session handed to clients.
type SessionSnapshot struct {
	ID                   string                `json:"id"`
	Stage                Stage                 `json:"stage"`
	Position             string                `json:"position"`
	Questions            []Question            `json:"questions"`
	CurrentQuestionIndex int                   `json:"current_question_index"`
	AnsweredQuestions    map[string]Modality   `json:"answered_questions"`
	Complete             bool                  `json:"complete"`
	Evaluating           bool                  `json:"evaluating"`
	Result               *NormalizedEvaluation `json:"result,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
}
