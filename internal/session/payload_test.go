package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interview-sim/interview-service/internal/models"
	"github.com/interview-sim/interview-service/internal/store"
)

func TestBuildPayload_PartitionCoversEveryQuestion(t *testing.T) {
	questions := threeQuestions()
	answers := store.NewAnswerStore()

	require.NoError(t, answers.CommitText("q1", "typed"))
	require.NoError(t, answers.CommitAudio("q2", clipOf(models.CaptureAudio, "aud", 10)))
	require.NoError(t, answers.CommitVideo("q3", clipOf(models.CaptureVideo, "vid", 20), nil))

	payload, _ := BuildPayload("sess-1", "前端开发", questions, answers)

	seen := map[string]int{}
	for _, d := range payload.TextData {
		seen[d.QuestionID]++
	}
	for _, d := range payload.AudioData {
		seen[d.QuestionID]++
	}
	for _, d := range payload.VideoData {
		seen[d.QuestionID]++
	}
	assert.Equal(t, map[string]int{"q1": 1, "q2": 1, "q3": 1}, seen)
	assert.Equal(t, "前端开发", payload.Position)
}

func TestBuildPayload_TextCarriesQuestionText(t *testing.T) {
	questions := threeQuestions()
	answers := store.NewAnswerStore()
	require.NoError(t, answers.CommitText("q2", "虚拟DOM是JS对象树"))

	payload, _ := BuildPayload("sess-1", "前端开发", questions, answers)

	require.Len(t, payload.TextData, 1)
	entry := payload.TextData[0]
	assert.Equal(t, "q2", entry.QuestionID)
	assert.Equal(t, "什么是虚拟DOM", entry.Question)
	assert.Equal(t, "虚拟DOM是JS对象树", entry.Answer)
	assert.Empty(t, entry.Resume)
}

func TestBuildPayload_ClipRefsAndDurations(t *testing.T) {
	questions := threeQuestions()
	answers := store.NewAnswerStore()
	require.NoError(t, answers.CommitAudio("q1", clipOf(models.CaptureAudio, "aud", 42)))
	require.NoError(t, answers.CommitVideo("q2", clipOf(models.CaptureVideo, "vid", 7), nil))

	payload, _ := BuildPayload("sess-9", "前端开发", questions, answers)

	require.Len(t, payload.AudioData, 1)
	assert.Equal(t, "sessions/sess-9/questions/q1/audio", payload.AudioData[0].AudioRef)
	assert.Equal(t, 42, payload.AudioData[0].DurationSeconds)

	require.Len(t, payload.VideoData, 1)
	assert.Equal(t, "sessions/sess-9/questions/q2/video", payload.VideoData[0].VideoRef)
	assert.Equal(t, 7, payload.VideoData[0].DurationSeconds)
}

func TestBuildPayload_FirstRawFileInQuestionOrder(t *testing.T) {
	questions := threeQuestions()
	answers := store.NewAnswerStore()

	second := &models.RawFile{Filename: "q2.webm", Data: []byte("b")}
	third := &models.RawFile{Filename: "q3.webm", Data: []byte("c")}
	// Committed out of order; question order decides which file is forwarded.
	require.NoError(t, answers.CommitVideo("q3", clipOf(models.CaptureVideo, "v3", 3), third))
	require.NoError(t, answers.CommitVideo("q2", clipOf(models.CaptureVideo, "v2", 2), second))
	require.NoError(t, answers.CommitText("q1", "typed"))

	_, rawFile := BuildPayload("sess-1", "前端开发", questions, answers)

	require.NotNil(t, rawFile)
	assert.Equal(t, "q2.webm", rawFile.Filename)
}

func TestBuildPayload_NoVideoNoRawFile(t *testing.T) {
	questions := threeQuestions()
	answers := store.NewAnswerStore()
	require.NoError(t, answers.CommitText("q1", "a"))

	payload, rawFile := BuildPayload("sess-1", "前端开发", questions, answers)

	assert.Nil(t, rawFile)
	assert.NotNil(t, payload.AudioData)
	assert.NotNil(t, payload.VideoData)
	assert.Empty(t, payload.AudioData)
	assert.Empty(t, payload.VideoData)
}
