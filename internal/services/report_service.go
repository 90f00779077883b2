package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/interview-sim/interview-service/internal/models"
	"github.com/interview-sim/interview-service/internal/repositories"
)

// ReportService stores finished evaluation reports and serves them back for
// review. It doubles as the session manager's report sink.
type ReportService interface {
	SaveReport(ctx context.Context, sessionID, position string, result *models.NormalizedEvaluation) error
	GetReport(ctx context.Context, id uint) (*models.EvaluationReport, error)
	ListReports(ctx context.Context, filters repositories.ReportFilters) ([]models.EvaluationReport, int64, error)
}

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

func (s *reportService) SaveReport(ctx context.Context, sessionID, position string, result *models.NormalizedEvaluation) error {
	report, err := reportFromResult(sessionID, position, result)
	if err != nil {
		return err
	}

	if err := s.repo.Report().Create(ctx, report); err != nil {
		return fmt.Errorf("failed to persist report for session %s: %w", sessionID, err)
	}

	s.logger.Info("Evaluation report persisted",
		"session_id", sessionID,
		"position", position,
		"report_id", report.ID,
		"total_score", report.TotalScore)

	return nil
}

func (s *reportService) GetReport(ctx context.Context, id uint) (*models.EvaluationReport, error) {
	report, err := s.repo.Report().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: report %d", ErrReportNotFound, id)
		}
		return nil, fmt.Errorf("failed to load report %d: %w", id, err)
	}
	return report, nil
}

func (s *reportService) ListReports(ctx context.Context, filters repositories.ReportFilters) ([]models.EvaluationReport, int64, error) {
	reports, total, err := s.repo.Report().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

func reportFromResult(sessionID, position string, result *models.NormalizedEvaluation) (*models.EvaluationReport, error) {
	competencies, err := json.Marshal(result.CoreCompetencies)
	if err != nil {
		return nil, fmt.Errorf("failed to encode competencies: %w", err)
	}
	suggestions, err := json.Marshal(result.ImprovementSuggestions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode suggestions: %w", err)
	}
	issues, err := json.Marshal(result.KeyIssues)
	if err != nil {
		return nil, fmt.Errorf("failed to encode key issues: %w", err)
	}
	paths, err := json.Marshal(result.LearningPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to encode learning paths: %w", err)
	}

	return &models.EvaluationReport{
		SessionID:       sessionID,
		Position:        position,
		TotalScore:      result.TotalScore,
		TotalBand:       string(result.TotalBand),
		Competencies:    competencies,
		Suggestions:     suggestions,
		KeyIssues:       issues,
		LearningPaths:   paths,
		OverallFeedback: result.OverallFeedback,
	}, nil
}
