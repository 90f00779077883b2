package session

import (
	"fmt"

	"github.com/interview-sim/interview-service/internal/models"
	"github.com/interview-sim/interview-service/internal/store"
)

// BuildPayload converts the answer store plus question list into the exact
// request body the remote evaluator expects. Every question lands in exactly
// one of the three modality lists, decided by the store's active-modality
// rule; the completeness guard on submit guarantees none is skipped.
//
// The returned raw file is the first committed video answer (in question
// order) that retained its original bytes, for the enhanced evaluation path.
// Only one raw file is ever forwarded; the evaluator's video analysis is a
// single-file pass.
func BuildPayload(sessionID, position string, questions []models.Question, answers *store.AnswerStore) (*models.MultiModalPayload, *models.RawFile) {
	payload := &models.MultiModalPayload{
		Position:  position,
		TextData:  []models.TextData{},
		AudioData: []models.AudioData{},
		VideoData: []models.VideoData{},
	}

	var rawFile *models.RawFile
	for _, q := range questions {
		switch answers.ActiveModality(q.ID) {
		case models.ModalityVideo:
			video, _ := answers.Video(q.ID)
			payload.VideoData = append(payload.VideoData, models.VideoData{
				QuestionID:      q.ID,
				VideoRef:        clipRef(sessionID, q.ID, models.ModalityVideo),
				DurationSeconds: clipDuration(video.Clip),
			})
			if rawFile == nil && video.RawFile != nil {
				rawFile = video.RawFile
			}
		case models.ModalityAudio:
			audio, _ := answers.Audio(q.ID)
			payload.AudioData = append(payload.AudioData, models.AudioData{
				QuestionID:      q.ID,
				AudioRef:        clipRef(sessionID, q.ID, models.ModalityAudio),
				DurationSeconds: clipDuration(audio.Clip),
			})
		case models.ModalityText:
			text, _ := answers.Text(q.ID)
			payload.TextData = append(payload.TextData, models.TextData{
				QuestionID: q.ID,
				Question:   q.Text,
				Answer:     text.Text,
				Resume:     "", // reserved for the resume collaborator
			})
		}
	}

	return payload, rawFile
}

// clipRef is the opaque handle under which a committed clip is addressable.
func clipRef(sessionID, questionID string, modality models.Modality) string {
	return fmt.Sprintf("sessions/%s/questions/%s/%s", sessionID, questionID, modality)
}

func clipDuration(clip *models.Clip) int {
	if clip == nil {
		return 0
	}
	return clip.DurationSeconds
}
