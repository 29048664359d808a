package service

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"survey-assessment-backend/internal/survey"
	"survey-assessment-backend/utilities"
)

// ReportService renders a stored assessment as a PDF document.
type ReportService interface {
	WriteAssessmentReport(ctx context.Context, assessmentID int, w io.Writer) error
}

type reportService struct {
	registry *survey.Registry
	surveys  SurveyService
}

func NewReportService(registry *survey.Registry, surveys SurveyService) ReportService {
	return &reportService{registry: registry, surveys: surveys}
}

func (s *reportService) WriteAssessmentReport(ctx context.Context, assessmentID int, w io.Writer) error {
	result, err := s.surveys.GetAssessment(ctx, assessmentID)
	if err != nil {
		return err
	}
	in, ok := s.registry.Get(result.SurveyID)
	if !ok {
		return &NotFoundError{Resource: "Survey", ID: result.SurveyID}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Assessment %d", result.ID), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(in.Name))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Assessment #%d", result.ID))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Submitted: "+result.Timestamp.Format("2006-01-02 15:04:05 MST"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Scores")
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 11)
	names := make([]string, 0, len(result.Scores))
	for name := range result.Scores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pdf.CellFormat(80, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%g", result.Scores[name]), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	if text, ok := in.Interpretation(result.Scores); ok {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Interpretation")
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, tr(text), "", "L", false)
		pdf.Ln(6)
	}

	if in.Guide != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Guide")
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(in.Guide), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		utilities.Error("Failed to render report for assessment %d: %v", assessmentID, err)
		return fmt.Errorf("render report: %w", err)
	}
	utilities.Info("Rendered report for assessment %d", assessmentID)
	return nil
}
