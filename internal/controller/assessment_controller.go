package controller

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"survey-assessment-backend/internal/model"
	"survey-assessment-backend/internal/service"
)

type AssessmentController struct {
	SurveyService service.SurveyService
	ReportService service.ReportService
}

func NewAssessmentController(surveyService service.SurveyService, reportService service.ReportService) *AssessmentController {
	return &AssessmentController{SurveyService: surveyService, ReportService: reportService}
}

type assessmentView struct {
	model.AssessmentResult
	Interpretation string `json:"interpretation,omitempty"`
}

func (ac *AssessmentController) GetAssessment(c *gin.Context) {
	id, ok := intParam(c, "id", "assessment ID")
	if !ok {
		return
	}
	result, err := ac.SurveyService.GetAssessment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	view := assessmentView{AssessmentResult: *result}
	view.Interpretation, _ = ac.SurveyService.Interpret(result)
	c.JSON(http.StatusOK, view)
}

func (ac *AssessmentController) DownloadReport(c *gin.Context) {
	id, ok := intParam(c, "id", "assessment ID")
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := ac.ReportService.WriteAssessmentReport(c.Request.Context(), id, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="assessment-%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
