// Package session owns the four-stage interview flow: position selection,
// question answering, result display, detailed analysis. A session is the
// single owner of its answer store and any live recorder; presentation layers
// only ever see read-only snapshots.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/interview-sim/interview-service/internal/capture"
	"github.com/interview-sim/interview-service/internal/evaluator"
	"github.com/interview-sim/interview-service/internal/events"
	"github.com/interview-sim/interview-service/internal/models"
	"github.com/interview-sim/interview-service/internal/normalizer"
	"github.com/interview-sim/interview-service/internal/store"
)

// QuestionSource loads the fixed question list for a position. It is the
// question-bank collaborator, not part of this package.
type QuestionSource interface {
	QuestionsForPosition(ctx context.Context, position string) ([]models.Question, error)
}

// ReportSink persists a finished evaluation report. Persistence failures are
// logged, not surfaced: the session already holds the result.
type ReportSink interface {
	SaveReport(ctx context.Context, sessionID, position string, result *models.NormalizedEvaluation) error
}

// SnapshotCache mirrors session snapshots into shared storage so snapshots
// stay readable outside this process. Mirror failures are logged, not
// surfaced; the in-memory session is authoritative.
type SnapshotCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
}

// Session is one user's practice run. All mutation goes through Manager,
// which serializes transitions per session: a transition cannot start while a
// prior transition's remote call is unresolved.
type Session struct {
	mu sync.Mutex

	id        string
	stage     models.Stage
	position  string
	questions []models.Question
	current   int

	answers *store.AnswerStore

	// recorder is the at-most-one live capture for this session, together
	// with the question it was started for. A question change or reset tears
	// it down so recording never outlives its question.
	recorder    *capture.Recorder
	recorderQID string
	devices     *capture.PushSource

	evaluating bool
	result     *models.NormalizedEvaluation

	createdAt time.Time
}

func newSession() *Session {
	return &Session{
		id:        uuid.NewString(),
		stage:     models.StageSelectPosition,
		answers:   store.NewAnswerStore(),
		devices:   capture.NewPushSource(),
		createdAt: time.Now(),
	}
}

func (s *Session) snapshotLocked() *models.SessionSnapshot {
	questions := make([]models.Question, len(s.questions))
	copy(questions, s.questions)
	return &models.SessionSnapshot{
		ID:                   s.id,
		Stage:                s.stage,
		Position:             s.position,
		Questions:            questions,
		CurrentQuestionIndex: s.current,
		AnsweredQuestions:    s.answers.Modalities(),
		Complete:             s.answers.IsComplete(s.questions),
		Evaluating:           s.evaluating,
		Result:               s.result,
		CreatedAt:            s.createdAt,
	}
}

func (s *Session) questionByID(questionID string) (*models.Question, bool) {
	for i := range s.questions {
		if s.questions[i].ID == questionID {
			return &s.questions[i], true
		}
	}
	return nil, false
}

// teardownRecorderLocked releases any live recorder. Called on question
// change and on reset; the guaranteed-release contract of the recorder does
// the actual track cleanup.
func (s *Session) teardownRecorderLocked() {
	if s.recorder != nil {
		s.recorder.Teardown()
		s.recorder = nil
		s.recorderQID = ""
	}
}

// Manager owns every live session. Single evaluator call in flight per
// session; sessions are independent of each other.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	questions QuestionSource
	evaluator evaluator.Client
	publisher events.SessionEventPublisher
	reports   ReportSink
	logger    *slog.Logger

	snapshots   SnapshotCache
	snapshotTTL time.Duration
}

func NewManager(
	questions QuestionSource,
	evalClient evaluator.Client,
	publisher events.SessionEventPublisher,
	reports ReportSink,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		questions: questions,
		evaluator: evalClient,
		publisher: publisher,
		reports:   reports,
		logger:    logger,
	}
}

// SetSnapshotCache enables snapshot mirroring for every stage transition.
// A non-positive ttl falls back to one hour.
func (m *Manager) SetSnapshotCache(snapshots SnapshotCache, ttl time.Duration) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	m.snapshots = snapshots
	m.snapshotTTL = ttl
}

// Create starts an empty session at the position-selection stage.
func (m *Manager) Create() *models.SessionSnapshot {
	sess := newSession()

	m.mu.Lock()
	m.sessions[sess.id] = sess
	m.mu.Unlock()

	m.logger.Info("session created", "session_id", sess.id)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return m.mirror(sess.snapshotLocked())
}

func (m *Manager) get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Snapshot returns the read-only state of a session. An unknown ID falls
// back to the mirrored snapshot, which covers sessions owned by another
// instance.
func (m *Manager) Snapshot(id string) (*models.SessionSnapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		if cached, ok := m.mirroredSnapshot(id); ok {
			return cached, nil
		}
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshotLocked(), nil
}

// SelectPosition moves SelectPosition -> Answer. Loading the question list is
// a precondition: a load failure leaves the session where it was.
func (m *Manager) SelectPosition(ctx context.Context, id, position string) (*models.SessionSnapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.stage != models.StageSelectPosition {
		return nil, ErrInvalidStage
	}
	if position == "" {
		return nil, ErrPositionRequired
	}

	questions, err := m.questions.QuestionsForPosition(ctx, position)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for %q: %w", position, err)
	}

	sess.position = position
	sess.questions = questions
	sess.current = 0
	sess.stage = models.StageAnswer

	m.publish(ctx, events.NewSessionStartedEvent(sess.id, position))
	m.logger.Info("position selected",
		"session_id", sess.id,
		"position", position,
		"questions", len(questions))

	return m.mirror(sess.snapshotLocked()), nil
}

// SetCurrentQuestion navigates between questions within the Answer stage and
// tears down any recorder still running for the previous question.
func (m *Manager) SetCurrentQuestion(id string, index int) (*models.SessionSnapshot, error) {
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
	if index < 0 || index >= len(sess.questions) {
		return nil, fmt.Errorf("%w: index %d", ErrQuestionNotFound, index)
	}
	if index != sess.current {
		sess.teardownRecorderLocked()
	}
	sess.current = index
	return sess.snapshotLocked(), nil
}

// CommitText commits a typed answer for a question.
func (m *Manager) CommitText(id, questionID, text string) error {
	sess, err := m.get(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.stage != models.StageAnswer {
		return ErrInvalidStage
	}
	if sess.evaluating {
		return ErrEvaluationInFlight
	}
	if _, ok := sess.questionByID(questionID); !ok {
		return ErrQuestionNotFound
	}
	return sess.answers.CommitText(questionID, text)
}

// CommitAudio commits a finished audio clip for a question.
func (m *Manager) CommitAudio(id, questionID string, clip *models.Clip) error {
	sess, err := m.get(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.stage != models.StageAnswer {
		return ErrInvalidStage
	}
	if sess.evaluating {
		return ErrEvaluationInFlight
	}
	if _, ok := sess.questionByID(questionID); !ok {
		return ErrQuestionNotFound
	}
	return sess.answers.CommitAudio(questionID, clip)
}

// CommitVideo commits a finished video clip, optionally retaining the raw
// captured file for the enhanced evaluation path.
func (m *Manager) CommitVideo(id, questionID string, clip *models.Clip, rawFile *models.RawFile) error {
	sess, err := m.get(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.stage != models.StageAnswer {
		return ErrInvalidStage
	}
	if sess.evaluating {
		return ErrEvaluationInFlight
	}
	if _, ok := sess.questionByID(questionID); !ok {
		return ErrQuestionNotFound
	}
	return sess.answers.CommitVideo(questionID, clip, rawFile)
}

// ActiveModality reports the authoritative modality for one question.
func (m *Manager) ActiveModality(id, questionID string) (models.Modality, error) {
	sess, err := m.get(id)
	if err != nil {
		return models.ModalityNone, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.answers.ActiveModality(questionID), nil
}

// CanAdvance reports whether the Answer -> Result guard would pass.
func (m *Manager) CanAdvance(id string) (bool, error) {
	sess, err := m.get(id)
	if err != nil {
		return false, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.stage == models.StageAnswer &&
		!sess.evaluating &&
		sess.answers.IsComplete(sess.questions), nil
}

// Submit drives Answer -> Result: checks completeness, builds the multimodal
// payload, calls the remote evaluator (multipart enhanced path when a raw
// video file is retained and the enhanced variant was requested), normalizes
// the response and advances. On evaluator failure the session stays in Answer
// with submit re-enabled; the error is surfaced for a user retry.
func (m *Manager) Submit(ctx context.Context, id string, variant models.EvaluationVariant) (*models.SessionSnapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.stage != models.StageAnswer {
		sess.mu.Unlock()
		return nil, ErrInvalidStage
	}
	if sess.evaluating {
		sess.mu.Unlock()
		return nil, ErrEvaluationInFlight
	}
	if !sess.answers.IsComplete(sess.questions) {
		sess.mu.Unlock()
		return nil, ErrIncompleteAnswers
	}

	payload, rawFile := BuildPayload(sess.id, sess.position, sess.questions, sess.answers)
	sess.evaluating = true
	position := sess.position
	sess.mu.Unlock()

	m.publish(ctx, events.NewSessionSubmittedEvent(id, position))
	m.logger.Info("evaluation started",
		"session_id", id,
		"position", position,
		"variant", variant,
		"text_answers", len(payload.TextData),
		"audio_answers", len(payload.AudioData),
		"video_answers", len(payload.VideoData))

	// The remote call runs without the session lock so reads stay possible,
	// but the evaluating flag keeps every mutating transition out.
	var raw *models.EvaluationResult
	if variant == models.EvaluationEnhanced && rawFile != nil {
		raw, err = m.evaluator.EvaluateWithVideo(ctx, payload, rawFile)
	} else {
		raw, err = m.evaluator.Evaluate(ctx, payload)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.evaluating = false

	if err != nil {
		m.logger.Error("evaluation failed", "session_id", id, "error", err)
		return nil, err
	}

	result := normalizer.NormalizeEvaluation(raw)
	sess.result = result
	// Leaving the Answer stage releases any open device stream.
	sess.teardownRecorderLocked()
	sess.stage = models.StageResult

	m.publish(ctx, events.NewSessionEvaluatedEvent(id, position, result.TotalScore, result.TotalBand))
	if m.reports != nil {
		if err := m.reports.SaveReport(ctx, id, position, result); err != nil {
			m.logger.Error("failed to persist evaluation report", "session_id", id, "error", err)
		}
	}

	m.logger.Info("evaluation completed",
		"session_id", id,
		"total_score", result.TotalScore,
		"band", result.TotalBand)

	return m.mirror(sess.snapshotLocked()), nil
}

// Advance moves Result -> Analysis. Pure navigation, but it requires an
// existing evaluation result.
func (m *Manager) Advance(id string) (*models.SessionSnapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.stage != models.StageResult {
		return nil, ErrInvalidStage
	}
	if sess.result == nil {
		return nil, ErrNoResult
	}
	sess.stage = models.StageAnalysis
	return m.mirror(sess.snapshotLocked()), nil
}

// Back moves Analysis -> Result. Unconditional.
func (m *Manager) Back(id string) (*models.SessionSnapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.stage != models.StageAnalysis {
		return nil, ErrInvalidStage
	}
	sess.stage = models.StageResult
	return m.mirror(sess.snapshotLocked()), nil
}

// Reset returns the session to initial values from any stage: stage, answer
// store and question list are cleared and any live recorder is torn down.
func (m *Manager) Reset(ctx context.Context, id string) (*models.SessionSnapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.evaluating {
		return nil, ErrEvaluationInFlight
	}

	sess.teardownRecorderLocked()
	sess.stage = models.StageSelectPosition
	sess.position = ""
	sess.questions = nil
	sess.current = 0
	sess.result = nil
	sess.answers.Reset()

	m.publish(ctx, events.NewSessionResetEvent(id))
	m.logger.Info("session reset", "session_id", id)

	return m.mirror(sess.snapshotLocked()), nil
}

func snapshotKey(id string) string {
	return "session:snapshot:" + id
}

// mirror writes the snapshot through to the shared cache and hands it back.
func (m *Manager) mirror(snapshot *models.SessionSnapshot) *models.SessionSnapshot {
	if m.snapshots == nil {
		return snapshot
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.snapshots.Set(ctx, snapshotKey(snapshot.ID), snapshot, m.snapshotTTL); err != nil {
		m.logger.Warn("failed to mirror session snapshot",
			"session_id", snapshot.ID,
			"error", err)
	}
	return snapshot
}

func (m *Manager) mirroredSnapshot(id string) (*models.SessionSnapshot, bool) {
	if m.snapshots == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var cached models.SessionSnapshot
	if err := m.snapshots.Get(ctx, snapshotKey(id), &cached); err != nil {
		return nil, false
	}
	return &cached, true
}

func (m *Manager) publish(ctx context.Context, event *events.SessionEvent) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.PublishSessionEvent(ctx, event); err != nil {
		m.logger.Error("failed to publish session event",
			"event_type", event.Type,
			"session_id", event.SessionID,
			"error", err)
	}
}
