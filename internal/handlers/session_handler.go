package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/interview-sim/interview-service/internal/models"
	"github.com/interview-sim/interview-service/internal/session"
	"github.com/interview-sim/interview-service/internal/utils"
)

// SessionHandler exposes the interview session lifecycle over HTTP: stage
// transitions, answer commits and the recording endpoints.
type SessionHandler struct {
	BaseHandler
	manager   *session.Manager
	validator *utils.Validator
}

func NewSessionHandler(manager *session.Manager, validator *utils.Validator, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		manager:     manager,
		validator:   validator,
	}
}

// ===== REQUEST STRUCTURES =====

type SelectPositionRequest struct {
	Position string `json:"position" validate:"required,min=1,max=100"`
}

type SetQuestionRequest struct {
	Index int `json:"index" validate:"min=0"`
}

type TextAnswerRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Text       string `json:"text" validate:"required,min=1"`
}

type SubmitRequest struct {
	Variant models.EvaluationVariant `json:"variant" validate:"omitempty,evaluation_variant"`
}

type StartRecordingRequest struct {
	QuestionID string             `json:"question_id" validate:"required"`
	Kind       models.CaptureKind `json:"kind" validate:"required,capture_kind"`
}

// ===== SESSION LIFECYCLE =====

// CreateSession starts a new session at the position-selection stage.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	h.LogRequest(c, "Creating session")

	snapshot := h.manager.Create()
	c.JSON(http.StatusCreated, snapshot)
}

// GetSession returns the session snapshot.
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snapshot, err := h.manager.Snapshot(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// SelectPosition picks the interview position and loads its question list.
func (h *SessionHandler) SelectPosition(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req SelectPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Selecting position", "session_id", id, "position", req.Position)

	snapshot, err := h.manager.SelectPosition(c.Request.Context(), id, req.Position)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// SetCurrentQuestion navigates between questions in the Answer stage.
func (h *SessionHandler) SetCurrentQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req SetQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	snapshot, err := h.manager.SetCurrentQuestion(id, req.Index)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// ===== ANSWERS =====

// CommitTextAnswer stores a typed answer for one question.
func (h *SessionHandler) CommitTextAnswer(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req TextAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	if err := h.manager.CommitText(id, req.QuestionID, req.Text); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Answer committed"})
}

// CommitAudioAnswer stores an uploaded audio clip as the answer of one
// question. Multipart form: question_id, duration_seconds, file field "clip".
func (h *SessionHandler) CommitAudioAnswer(c *gin.Context) {
	h.commitClipAnswer(c, models.CaptureAudio)
}

// CommitVideoAnswer stores an uploaded video clip as the answer of one
// question; the raw bytes are retained for the enhanced evaluation path.
func (h *SessionHandler) CommitVideoAnswer(c *gin.Context) {
	h.commitClipAnswer(c, models.CaptureVideo)
}

func (h *SessionHandler) commitClipAnswer(c *gin.Context, kind models.CaptureKind) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	questionID := c.PostForm("question_id")
	if questionID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing question_id form field",
		})
		return
	}

	fileHeader, err := c.FormFile("clip")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing clip file",
			Details: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unreadable clip file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unreadable clip file",
			Details: err.Error(),
		})
		return
	}

	clip := &models.Clip{
		Kind:            kind,
		MimeType:        fileHeader.Header.Get("Content-Type"),
		Data:            data,
		DurationSeconds: parseDurationField(c.PostForm("duration_seconds")),
	}

	h.LogRequest(c, "Committing clip answer",
		"session_id", id,
		"question_id", questionID,
		"kind", kind,
		"bytes", len(data))

	if kind == models.CaptureVideo {
		rawFile := &models.RawFile{
			Filename: fileHeader.Filename,
			MimeType: clip.MimeType,
			Data:     data,
		}
		err = h.manager.CommitVideo(id, questionID, clip, rawFile)
	} else {
		err = h.manager.CommitAudio(id, questionID, clip)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Answer committed"})
}

// GetModality reports the authoritative answer modality of one question.
func (h *SessionHandler) GetModality(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	modality, err := h.manager.ActiveModality(id, questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question_id": questionID, "modality": modality})
}

// ===== STAGE TRANSITIONS =====

// Submit runs the evaluation and moves Answer to Result.
func (h *SessionHandler) Submit(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	req := SubmitRequest{Variant: models.EvaluationEnhanced}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid request payload",
				Details: err.Error(),
			})
			return
		}
		if req.Variant == "" {
			req.Variant = models.EvaluationEnhanced
		}
		if err := h.validator.Validate(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Validation failed",
				Details: err.Error(),
			})
			return
		}
	}

	h.LogRequest(c, "Submitting session for evaluation", "session_id", id, "variant", req.Variant)

	snapshot, err := h.manager.Submit(c.Request.Context(), id, req.Variant)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Advance moves Result to Analysis.
func (h *SessionHandler) Advance(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snapshot, err := h.manager.Advance(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Back moves Analysis to Result.
func (h *SessionHandler) Back(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snapshot, err := h.manager.Back(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Reset returns the session to the position-selection stage.
func (h *SessionHandler) Reset(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Resetting session", "session_id", id)

	snapshot, err := h.manager.Reset(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// ===== RECORDING =====

// StartRecording begins an audio or video capture for one question.
func (h *SessionHandler) StartRecording(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req StartRecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Starting recording",
		"session_id", id,
		"question_id", req.QuestionID,
		"kind", req.Kind)

	state, err := h.manager.StartRecording(id, req.QuestionID, req.Kind)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// PushChunk appends one recorded chunk to the live capture stream. The chunk
// is the raw request body; the capture kind comes from the kind query param.
func (h *SessionHandler) PushChunk(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	kind := models.CaptureKind(c.DefaultQuery("kind", string(models.CaptureVideo)))
	if kind != models.CaptureAudio && kind != models.CaptureVideo {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid capture kind",
			Details: string(kind),
		})
		return
	}

	data, err := c.GetRawData()
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Empty chunk body",
		})
		return
	}

	if err := h.manager.PushChunk(id, kind, data); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, SuccessResponse{Message: "Chunk accepted"})
}

// StopRecording finalizes the capture and commits the clip as the answer of
// the question the recording was started for.
func (h *SessionHandler) StopRecording(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Stopping recording", "session_id", id)

	state, err := h.manager.StopRecording(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetRecorderState reports the live recorder of a session.
func (h *SessionHandler) GetRecorderState(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	state, err := h.manager.RecorderState(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func parseDurationField(value string) int {
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}
