package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionCategory string

const (
	CategoryTechnical     QuestionCategory = "technical"
	CategoryBehavioral    QuestionCategory = "behavioral"
	CategoryProject       QuestionCategory = "project"
	CategoryFundamentals  QuestionCategory = "fundamentals"
	CategoryCommunication QuestionCategory = "communication"
)

// Question is one interview question in the bank. Once a session has loaded
// its question list the questions are immutable for that session.
type Question struct {
	ID       string           `json:"id" gorm:"primaryKey;size:64"`
	Position string           `json:"position" gorm:"not null;size:100;index" validate:"required,min=1,max=100"`
	Category QuestionCategory `json:"category" gorm:"size:50;index"`
	Text     string           `json:"text" gorm:"type:text;not null" validate:"required,min=1"`
	Ordinal  int              `json:"ordinal" gorm:"not null"`

	// Metadata holds generator- or import-specific extras (source, tags).
	Metadata datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}
