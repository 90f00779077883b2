package repositories

import (
	"context"
	"errors"

	"github.com/interview-sim/interview-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	Position *string                  `json:"position"`
	Category *models.QuestionCategory `json:"category"`
	Limit    int                      `json:"limit"`
	Offset   int                      `json:"offset"`
}

type ReportFilters struct {
	SessionID *string `json:"session_id"`
	Position  *string `json:"position"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetByID(ctx context.Context, id string) (*models.Question, error)
	GetByPosition(ctx context.Context, position string) ([]models.Question, error)
	List(ctx context.Context, filters QuestionFilters) ([]models.Question, int64, error)
	Positions(ctx context.Context) ([]string, error)
	CountByPosition(ctx context.Context, position string) (int64, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *models.EvaluationReport) error
	GetByID(ctx context.Context, id uint) (*models.EvaluationReport, error)
	List(ctx context.Context, filters ReportFilters) ([]models.EvaluationReport, int64, error)
}

// Repository aggregates every persistence concern of the service.
type Repository interface {
	Question() QuestionRepository
	Report() ReportRepository
}

// IsNotFoundError reports whether a repository error means the record does
// not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
