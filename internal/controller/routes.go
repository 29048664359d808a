package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"survey-assessment-backend/internal/service"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Surveys      service.SurveyService
	Summaries    service.SummaryService
	Reports      service.ReportService
	StoreBackend string
	PageSize     int
}

func RegisterRoutes(r *gin.Engine, s Services) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello agile team"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": s.StoreBackend})
	})

	surveyCtrl := NewSurveyController(s.Surveys, s.Summaries, s.PageSize)
	surveyRoutes := r.Group("/surveys")
	{
		surveyRoutes.GET("", surveyCtrl.ListSurveys)
		surveyRoutes.GET("/:id", surveyCtrl.GetSurvey)
		surveyRoutes.GET("/:id/questions", surveyCtrl.GetQuestions)
		surveyRoutes.GET("/:id/guide", surveyCtrl.GetGuide)
		surveyRoutes.POST("/:id/responses", surveyCtrl.SubmitResponses)
		surveyRoutes.GET("/:id/assessments", surveyCtrl.ListAssessments)
		surveyRoutes.GET("/:id/summary", surveyCtrl.GetSummary)
	}

	assessmentCtrl := NewAssessmentController(s.Surveys, s.Reports)
	assessRoutes := r.Group("/assessments")
	{
		assessRoutes.GET("/:id", assessmentCtrl.GetAssessment)
		assessRoutes.GET("/:id/report", assessmentCtrl.DownloadReport)
	}
}
