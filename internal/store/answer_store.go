package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/interview-sim/interview-service/internal/models"
)

// ErrModalityLocked means a commit was attempted for a question that already
// holds an answer in a competing modality. Clients surface it as a disabled
// control with an inline explanation rather than a retry path.
var ErrModalityLocked = errors.New("another modality is already committed for this question")

// AnswerStore holds the committed answers of one session: per question, at
// most one text-or-audio answer and, independently, at most one video answer.
// Which of them is authoritative is decided by ActiveModality, never by the
// callers. Entries live until Reset.
type AnswerStore struct {
	mu     sync.RWMutex
	spoken map[string]spokenAnswer // questionID -> text or audio
	videos map[string]*models.VideoAnswer
}

// spokenAnswer is the text/audio slot; exactly one of the fields is set.
type spokenAnswer struct {
	text  *models.TextAnswer
	audio *models.AudioAnswer
}

func NewAnswerStore() *AnswerStore {
	return &AnswerStore{
		spoken: make(map[string]spokenAnswer),
		videos: make(map[string]*models.VideoAnswer),
	}
}

// CommitText upserts a typed answer. Fails with ErrModalityLocked if audio or
// video is already committed for the question; resubmitting text replaces the
// prior text answer.
func (s *AnswerStore) CommitText(questionID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[questionID]; ok {
		return fmt.Errorf("question %s: %w", questionID, ErrModalityLocked)
	}
	if prev, ok := s.spoken[questionID]; ok && prev.audio != nil {
		return fmt.Errorf("question %s: %w", questionID, ErrModalityLocked)
	}

	s.spoken[questionID] = spokenAnswer{text: &models.TextAnswer{
		QuestionID: questionID,
		Text:       text,
		CapturedAt: time.Now(),
	}}
	return nil
}

// CommitAudio sets a recorded audio answer. Fails with ErrModalityLocked if
// text or video is already committed; resubmitting audio replaces the prior
// clip.
func (s *AnswerStore) CommitAudio(questionID string, clip *models.Clip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[questionID]; ok {
		return fmt.Errorf("question %s: %w", questionID, ErrModalityLocked)
	}
	if prev, ok := s.spoken[questionID]; ok && prev.text != nil {
		return fmt.Errorf("question %s: %w", questionID, ErrModalityLocked)
	}

	s.spoken[questionID] = spokenAnswer{audio: &models.AudioAnswer{
		QuestionID: questionID,
		Clip:       clip,
		CapturedAt: time.Now(),
	}}
	return nil
}

// CommitVideo sets a recorded video answer. Video outranks both other
// modalities so it is never blocked, but once committed the text/audio slot
// for that question is locked for the rest of the session.
func (s *AnswerStore) CommitVideo(questionID string, clip *models.Clip, rawFile *models.RawFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.videos[questionID] = &models.VideoAnswer{
		QuestionID: questionID,
		Clip:       clip,
		CapturedAt: time.Now(),
		RawFile:    rawFile,
	}
	return nil
}

// ActiveModality decides which single modality is usable for a question:
// video > audio > text > none. UI gating and payload building both consult
// this so they cannot disagree.
func (s *AnswerStore) ActiveModality(questionID string) models.Modality {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeModalityLocked(questionID)
}

func (s *AnswerStore) activeModalityLocked(questionID string) models.Modality {
	if _, ok := s.videos[questionID]; ok {
		return models.ModalityVideo
	}
	if ans, ok := s.spoken[questionID]; ok {
		if ans.audio != nil {
			return models.ModalityAudio
		}
		if ans.text != nil {
			return models.ModalityText
		}
	}
	return models.ModalityNone
}

// IsComplete reports whether every given question has a committed answer in
// some modality. It gates the submit action and the Answer -> Result
// transition.
func (s *AnswerStore) IsComplete(questions []models.Question) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range questions {
		if s.activeModalityLocked(q.ID) == models.ModalityNone {
			return false
		}
	}
	return true
}

// Text returns the committed text answer, if it exists.
func (s *AnswerStore) Text(questionID string) (*models.TextAnswer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ans, ok := s.spoken[questionID]
	if !ok || ans.text == nil {
		return nil, false
	}
	return ans.text, true
}

// Audio returns the committed audio answer, if it exists.
func (s *AnswerStore) Audio(questionID string) (*models.AudioAnswer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ans, ok := s.spoken[questionID]
	if !ok || ans.audio == nil {
		return nil, false
	}
	return ans.audio, true
}

// Video returns the committed video answer, if it exists.
func (s *AnswerStore) Video(questionID string) (*models.VideoAnswer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.videos[questionID]
	return v, ok
}

// Modalities snapshots the active modality of every answered question.
func (s *AnswerStore) Modalities() map[string]models.Modality {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.Modality, len(s.spoken)+len(s.videos))
	for id := range s.spoken {
		out[id] = s.activeModalityLocked(id)
	}
	for id := range s.videos {
		out[id] = models.ModalityVideo
	}
	return out
}

// Reset clears every committed answer. Only a full session reset calls this.
func (s *AnswerStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = make(map[string]spokenAnswer)
	s.videos = make(map[string]*models.VideoAnswer)
}
