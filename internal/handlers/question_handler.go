package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/interview-sim/interview-service/internal/services"
	"github.com/interview-sim/interview-service/internal/utils"
)

// QuestionHandler serves the question bank: positions, per-position question
// lists, async generation and file import/export.
type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
	importExport    services.ImportExportService
	validator       *utils.Validator
}

func NewQuestionHandler(
	questionService services.QuestionService,
	importExport services.ImportExportService,
	validator *utils.Validator,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
		importExport:    importExport,
		validator:       validator,
	}
}

// ListPositions returns every position that has stored questions.
func (h *QuestionHandler) ListPositions(c *gin.Context) {
	positions, err := h.questionService.Positions(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": positions})
}

// ListQuestions returns the question list of one position.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	position := c.Query("position")
	if position == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing position query parameter",
		})
		return
	}

	questions, err := h.questionService.QuestionsForPosition(c.Request.Context(), position)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": position, "questions": questions})
}

// StartGeneration kicks off async question generation for a position and
// returns a task ID to poll.
func (h *QuestionHandler) StartGeneration(c *gin.Context) {
	var req services.StartGenerationRequest
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

	h.LogRequest(c, "Starting question generation", "position", req.Position, "count", req.Count)

	taskID, err := h.questionService.StartGeneration(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"task_id": taskID, "status": services.GenerationPending})
}

// PollGeneration reports the status of a generation task.
func (h *QuestionHandler) PollGeneration(c *gin.Context) {
	taskID := ParseStringIDParam(c, "task_id")
	if taskID == "" {
		return
	}

	status, err := h.questionService.PollGeneration(c.Request.Context(), taskID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ImportQuestions loads questions from an uploaded CSV or Excel file. Rejected
// rows come back in the response, accepted rows are stored.
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing import file",
			Details: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unreadable import file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing questions", "filename", fileHeader.Filename, "size", fileHeader.Size)

	result, err := h.importExport.ImportQuestionsFromFile(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportQuestions streams the stored question bank as CSV or Excel. The
// position query narrows the export; format defaults to xlsx.
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	position := c.Query("position")
	format := c.DefaultQuery("format", "xlsx")

	var (
		data        []byte
		contentType string
		err         error
	)

	switch format {
	case "csv":
		data, err = h.importExport.ExportQuestionsToCSV(c.Request.Context(), position)
		contentType = "text/csv"
	case "xlsx":
		data, err = h.importExport.ExportQuestionsToExcel(c.Request.Context(), position)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: format,
		})
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("questions-%s.%s", time.Now().Format("20060102-150405"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
