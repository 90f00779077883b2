package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/interview-sim/interview-service/internal/services"
	"github.com/interview-sim/interview-service/internal/session"
	"github.com/interview-sim/interview-service/internal/utils"
)

type HandlerManager struct {
	sessionHandler  *SessionHandler
	questionHandler *QuestionHandler
	reportHandler   *ReportHandler
}

func NewHandlerManager(
	manager *session.Manager,
	questionService services.QuestionService,
	importExport services.ImportExportService,
	reportService services.ReportService,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler:  NewSessionHandler(manager, validator, logger),
		questionHandler: NewQuestionHandler(questionService, importExport, validator, logger),
		reportHandler:   NewReportHandler(reportService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "interview-service",
		})
	})

	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/position", hm.sessionHandler.SelectPosition)
			sessions.PUT("/:id/question", hm.sessionHandler.SetCurrentQuestion)

			sessions.POST("/:id/answers/text", hm.sessionHandler.CommitTextAnswer)
			sessions.POST("/:id/answers/audio", hm.sessionHandler.CommitAudioAnswer)
			sessions.POST("/:id/answers/video", hm.sessionHandler.CommitVideoAnswer)
			sessions.GET("/:id/modality/:question_id", hm.sessionHandler.GetModality)

			sessions.POST("/:id/submit", hm.sessionHandler.Submit)
			sessions.POST("/:id/advance", hm.sessionHandler.Advance)
			sessions.POST("/:id/back", hm.sessionHandler.Back)
			sessions.POST("/:id/reset", hm.sessionHandler.Reset)

			sessions.POST("/:id/recorder/start", hm.sessionHandler.StartRecording)
			sessions.POST("/:id/recorder/chunks", hm.sessionHandler.PushChunk)
			sessions.POST("/:id/recorder/stop", hm.sessionHandler.StopRecording)
			sessions.GET("/:id/recorder", hm.sessionHandler.GetRecorderState)
		}

		v1.GET("/positions", hm.questionHandler.ListPositions)

		questions := v1.Group("/questions")
		{
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.POST("/generate", hm.questionHandler.StartGeneration)
			questions.GET("/generate/:task_id", hm.questionHandler.PollGeneration)
			questions.POST("/import", hm.questionHandler.ImportQuestions)
			questions.GET("/export", hm.questionHandler.ExportQuestions)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("", hm.reportHandler.ListReports)
			reports.GET("/:id", hm.reportHandler.GetReport)
		}
	}
}
