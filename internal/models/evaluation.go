package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ===== EVALUATION REQUEST (wire format expected by the remote evaluator) =====

// MultiModalPayload routes every answered question into exactly one of the
// three modality lists. The union of the lists covers the full question set
// with no overlap; the submit guard enforces that before a payload is built.
type MultiModalPayload struct {
	Position  string      `json:"position"`
	TextData  []TextData  `json:"textData"`
	AudioData []AudioData `json:"audioData"`
	VideoData []VideoData `json:"videoData"`
}

// TextData carries the question text alongside the answer, denormalized for
// the scorer's convenience. Resume is reserved for a collaborator and is
// always sent empty.
type TextData struct {
	QuestionID string `json:"questionId"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Resume     string `json:"resume"`
}

type AudioData struct {
	QuestionID      string `json:"questionId"`
	AudioRef        string `json:"audioUrl"`
	DurationSeconds int    `json:"durationSeconds"`
}

type VideoData struct {
	QuestionID      string `json:"questionId"`
	VideoRef        string `json:"videoUrl"`
	DurationSeconds int    `json:"durationSeconds"`
}

// ===== EVALUATION RESPONSE =====

// EvaluationResult is the raw score report returned by the evaluator. Any of
// its fields may be missing or malformed; the normalizer repairs it before
// anything renders it.
type EvaluationResult struct {
	TotalScore             *float64           `json:"totalScore"`
	CoreCompetencies       map[string]float64 `json:"coreCompetencies"`
	KeyIssues              []string           `json:"keyIssues"`
	ImprovementSuggestions []string           `json:"improvementSuggestions"`
	OverallFeedback        string             `json:"overallFeedback"`
	LearningPaths          []LearningPath     `json:"learningPaths"`
}

type LearningPath struct {
	Title         string `json:"title"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	EstimatedTime int    `json:"estimatedTime"`
	Description   string `json:"description"`
	ResourceURL   string `json:"resourceUrl"`
}

// ScoreBand buckets a numeric score for display.
type ScoreBand string

const (
	BandExcellent        ScoreBand = "excellent"
	BandGood             ScoreBand = "good"
	BandNeedsImprovement ScoreBand = "needs improvement"
)

// ===== NORMALIZED RESULT (display-ready) =====

type CompetencyScore struct {
	Score float64   `json:"score"`
	Band  ScoreBand `json:"band"`
}

// NormalizedLearningPath is a learning path whose resource link has been
// repaired. Actionable is false when neither the evaluator nor the fallback
// table produced a usable link, and the client must disable navigation.
type NormalizedLearningPath struct {
	LearningPath
	Actionable bool `json:"actionable"`
}

// NormalizedEvaluation is safe and complete for display: no nil containers,
// every score banded, every learning-path link valid or explicitly absent.
type NormalizedEvaluation struct {
	TotalScore             float64                    `json:"totalScore"`
	TotalBand              ScoreBand                  `json:"totalBand"`
	HasScore               bool                       `json:"hasScore"`
	CoreCompetencies       map[string]CompetencyScore `json:"coreCompetencies"`
	KeyIssues              []string                   `json:"keyIssues"`
	ImprovementSuggestions []string                   `json:"improvementSuggestions"`
	OverallFeedback        string                     `json:"overallFeedback"`
	LearningPaths          []NormalizedLearningPath   `json:"learningPaths"`
}

// ===== PERSISTED REPORT =====

// EvaluationReport is the stored form of a normalized evaluation, kept so a
// user can revisit past session reports.
type EvaluationReport struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	SessionID  string  `json:"session_id" gorm:"not null;size:64;index"`
	Position   string  `json:"position" gorm:"not null;size:100;index"`
	TotalScore float64 `json:"total_score"`
	TotalBand  string  `json:"total_band" gorm:"size:30"`

	Competencies  datatypes.JSON `json:"competencies" gorm:"type:jsonb"`   // map[string]CompetencyScore
	Suggestions   datatypes.JSON `json:"suggestions" gorm:"type:jsonb"`    // []string
	KeyIssues     datatypes.JSON `json:"key_issues" gorm:"type:jsonb"`     // []string
	LearningPaths datatypes.JSON `json:"learning_paths" gorm:"type:jsonb"` // []NormalizedLearningPath

	OverallFeedback string `json:"overall_feedback" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (EvaluationReport) TableName() string {
	return "evaluation_reports"
}
