package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"survey-assessment-backend/internal/model"
	"survey-assessment-backend/internal/service"
)

type SurveyController struct {
	SurveyService  service.SurveyService
	SummaryService service.SummaryService
	PageSize       int
}

func NewSurveyController(surveyService service.SurveyService, summaryService service.SummaryService, pageSize int) *SurveyController {
	return &SurveyController{
		SurveyService:  surveyService,
		SummaryService: summaryService,
		PageSize:       pageSize,
	}
}

func (sc *SurveyController) ListSurveys(c *gin.Context) {
	c.JSON(http.StatusOK, sc.SurveyService.ListSurveys())
}

func (sc *SurveyController) GetSurvey(c *gin.Context) {
	id, ok := intParam(c, "id", "survey ID")
	if !ok {
		return
	}
	detail, err := sc.SurveyService.GetSurvey(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (sc *SurveyController) GetQuestions(c *gin.Context) {
	id, ok := intParam(c, "id", "survey ID")
	if !ok {
		return
	}
	questions, err := sc.SurveyService.GetSurveyQuestions(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (sc *SurveyController) GetGuide(c *gin.Context) {
	id, ok := intParam(c, "id", "survey ID")
	if !ok {
		return
	}
	guide, err := sc.SurveyService.GetGuide(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"survey_id": id, "guide": guide})
}

// SubmitResponses scores a completed survey. The survey id in the path wins
// over any survey_id in the body.
func (sc *SurveyController) SubmitResponses(c *gin.Context) {
	id, ok := intParam(c, "id", "survey ID")
	if !ok {
		return
	}
	var req model.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if req.Timestamp.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: timestamp is required"})
		return
	}

	result, err := sc.SurveyService.Submit(c.Request.Context(), id, req.Answers, req.Timestamp)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (sc *SurveyController) ListAssessments(c *gin.Context) {
	id, ok := intParam(c, "id", "survey ID")
	if !ok {
		return
	}
	page := 1
	if raw := c.Query("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
			return
		}
		page = p
	}

	results, err := sc.SurveyService.ListAssessments(c.Request.Context(), id, page, sc.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"survey_id":   id,
		"page":        page,
		"page_size":   sc.PageSize,
		"assessments": results,
	})
}

func (sc *SurveyController) GetSummary(c *gin.Context) {
	id, ok := intParam(c, "id", "survey ID")
	if !ok {
		return
	}
	summary, err := sc.SummaryService.Summarize(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
