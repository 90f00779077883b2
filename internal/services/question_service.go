package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/interview-sim/interview-service/internal/cache"
	"github.com/interview-sim/interview-service/internal/models"
	"github.com/interview-sim/interview-service/internal/repositories"
	"github.com/interview-sim/interview-service/internal/utils"
)

// QuestionService owns the question bank: position listing, per-position
// question loading (the session's QuestionSource), and polling-based async
// generation for positions without a fixed bank.
type QuestionService interface {
	Positions(ctx context.Context) ([]string, error)
	QuestionsForPosition(ctx context.Context, position string) ([]models.Question, error)
	StartGeneration(ctx context.Context, req *StartGenerationRequest) (string, error)
	PollGeneration(ctx context.Context, taskID string) (*GenerationStatus, error)
	SeedDefaultBank(ctx context.Context) error
}

// Generator produces fresh questions for a position. The production
// implementation is an external LLM collaborator; the fallback samples the
// stored bank.
type Generator interface {
	Generate(ctx context.Context, position string, count int) ([]models.Question, error)
}

type StartGenerationRequest struct {
	Position string `json:"position" validate:"required,min=1,max=100"`
	Count    int    `json:"count" validate:"min=1,max=20"`
}

// GenerationStatus is the poll answer for an async generation task.
type GenerationStatus struct {
	Status    string            `json:"status"` // pending | done | error | not_found
	Questions []models.Question `json:"questions,omitempty"`
}

const (
	GenerationPending  = "pending"
	GenerationDone     = "done"
	GenerationError    = "error"
	GenerationNotFound = "not_found"

	generationTaskTTL = 30 * time.Minute
)

type questionService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	generator Generator
	logger    *slog.Logger
	validator *utils.Validator
}

func NewQuestionService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	generator Generator,
	logger *slog.Logger,
	validator *utils.Validator,
) QuestionService {
	return &questionService{
		repo:      repo,
		cache:     cacheService,
		generator: generator,
		logger:    logger,
		validator: validator,
	}
}

func (s *questionService) Positions(ctx context.Context) ([]string, error) {
	positions, err := s.repo.Question().Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

// QuestionsForPosition loads the ordered question list for a position. A
// position with no stored bank gets the generic default set rather than an
// empty interview.
func (s *questionService) QuestionsForPosition(ctx context.Context, position string) ([]models.Question, error) {
	questions, err := s.repo.Question().GetByPosition(ctx, position)
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank: %w", err)
	}
	if len(questions) == 0 {
		s.logger.Info("no stored questions, serving default set", "position", position)
		return defaultQuestions(position), nil
	}
	return questions, nil
}

// StartGeneration registers a generation task and runs it in the background.
// The task status lives in the cache under a TTL so pollers of abandoned
// tasks eventually see not_found.
func (s *questionService) StartGeneration(ctx context.Context, req *StartGenerationRequest) (string, error) {
	if err := s.validator.Validate(req); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	taskID := uuid.NewString()
	if err := s.cache.Set(ctx, generationKey(taskID), &GenerationStatus{Status: GenerationPending}, generationTaskTTL); err != nil {
		return "", fmt.Errorf("failed to register generation task: %w", err)
	}

	s.logger.Info("generation task started",
		"task_id", taskID,
		"position", req.Position,
		"count", req.Count)

	go s.runGeneration(taskID, req.Position, req.Count)

	return taskID, nil
}

func (s *questionService) runGeneration(taskID, position string, count int) {
	// Detached from the request context: generation outlives the HTTP call.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	questions, err := s.generator.Generate(ctx, position, count)
	status := &GenerationStatus{Status: GenerationDone, Questions: questions}
	if err != nil {
		s.logger.Error("generation task failed", "task_id", taskID, "error", err)
		status = &GenerationStatus{Status: GenerationError}
	}

	if err := s.cache.Set(ctx, generationKey(taskID), status, generationTaskTTL); err != nil {
		s.logger.Error("failed to store generation result", "task_id", taskID, "error", err)
	}
}

func (s *questionService) PollGeneration(ctx context.Context, taskID string) (*GenerationStatus, error) {
	var status GenerationStatus
	err := s.cache.Get(ctx, generationKey(taskID), &status)
	if errors.Is(err, cache.ErrCacheMiss) {
		return &GenerationStatus{Status: GenerationNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to poll generation task: %w", err)
	}
	return &status, nil
}

// SeedDefaultBank writes the built-in question set for the standard
// positions, skipping positions that already have questions.
func (s *questionService) SeedDefaultBank(ctx context.Context) error {
	for _, position := range seedPositions {
		count, err := s.repo.Question().CountByPosition(ctx, position)
		if err != nil {
			return fmt.Errorf("failed to check bank for %q: %w", position, err)
		}
		if count > 0 {
			continue
		}

		questions := defaultQuestions(position)
		batch := make([]*models.Question, len(questions))
		for i := range questions {
			batch[i] = &questions[i]
		}
		if err := s.repo.Question().CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("failed to seed bank for %q: %w", position, err)
		}
		s.logger.Info("seeded default question bank", "position", position, "questions", len(questions))
	}
	return nil
}

func generationKey(taskID string) string {
	return "generation:task:" + taskID
}

// bankGenerator samples the stored bank, the fallback when no external
// generator is configured.
type bankGenerator struct {
	repo repositories.Repository
}

func NewBankGenerator(repo repositories.Repository) Generator {
	return &bankGenerator{repo: repo}
}

func (g *bankGenerator) Generate(ctx context.Context, position string, count int) ([]models.Question, error) {
	questions, err := g.repo.Question().GetByPosition(ctx, position)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		questions = defaultQuestions(position)
	}
	if count > 0 && count < len(questions) {
		questions = questions[:count]
	}
	return questions, nil
}

// ===== DEFAULT BANK =====

var seedPositions = []string{"前端开发", "后端开发", "全栈开发"}

// defaultQuestions is the built-in bank used when a position has no stored
// questions, mirroring the default interview sets of the question bank.
func defaultQuestions(position string) []models.Question {
	type entry struct {
		category models.QuestionCategory
		text     string
	}
	var entries []entry

	switch position {
	case "前端开发":
		entries = []entry{
			{models.CategoryTechnical, "请详细介绍React的生命周期钩子函数，以及它们的使用场景？"},
			{models.CategoryTechnical, "什么是虚拟DOM？请解释虚拟DOM的工作原理和优势？"},
			{models.CategoryProject, "请描述你参与过的最有挑战性的前端项目，以及你在其中承担的角色？"},
			{models.CategoryProject, "在项目中遇到过哪些性能问题？你是如何解决的？"},
		}
	case "后端开发":
		entries = []entry{
			{models.CategoryTechnical, "请详细介绍Java中的多线程编程，以及线程安全的概念？"},
			{models.CategoryTechnical, "什么是Spring框架？请解释Spring的核心特性和优势？"},
			{models.CategoryProject, "请描述你参与过的最复杂的后端项目，以及你在其中承担的角色？"},
			{models.CategoryProject, "在项目中遇到过哪些性能问题？你是如何解决的？"},
		}
	case "全栈开发":
		entries = []entry{
			{models.CategoryTechnical, "请详细介绍前后端分离架构的优势和实现方式？"},
			{models.CategoryTechnical, "什么是CI/CD？请介绍持续集成和持续部署的流程？"},
			{models.CategoryProject, "请描述你参与过的最有挑战性的全栈项目，以及你在其中承担的角色？"},
			{models.CategoryProject, "在项目中遇到过哪些架构问题？你是如何解决的？"},
		}
	default:
		entries = []entry{
			{models.CategoryFundamentals, "请介绍一下你的技术背景和项目经验？"},
			{models.CategoryFundamentals, "你最近学习了什么新技术？"},
		}
	}

	questions := make([]models.Question, len(entries))
	for i, e := range entries {
		questions[i] = models.Question{
			ID:       uuid.NewString(),
			Position: position,
			Category: e.category,
			Text:     e.text,
			Ordinal:  i + 1,
		}
	}
	return questions
}
