package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const responsesSheet = "Responses"

var responseHeaders = []string{
	"Submitted At", "Respondent Email", "Respondent Name", "Time Spent (seconds)",
	"Completion (%)", "Complete", "Total Score", "Max Score", "Score (%)",
}

type exportService struct {
	forms     repositories.FormRepository
	responses repositories.ResponseRepository
	logger    *slog.Logger
}

func NewExportService(forms repositories.FormRepository, responses repositories.ResponseRepository, logger *slog.Logger) ExportService {
	return &exportService{
		forms:     forms,
		responses: responses,
		logger:    logger,
	}
}

// ExportResponses writes every response of a form the caller owns into an
// xlsx workbook: one row per response, one column per question after the
// fixed response columns. It returns the workbook and a file name.
func (s *exportService) ExportResponses(ctx context.Context, formID uint, userID string) ([]byte, string, error) {
	form, err := s.forms.GetByID(ctx, nil, formID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrFormNotFound
		}
		return nil, "", fmt.Errorf("failed to get form: %w", err)
	}
	if !form.IsOwnedBy(userID) {
		return nil, "", NewPermissionError(userID, formID, "form", "export responses of")
	}

	responses, err := s.responses.ListAll(ctx, nil, formID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get responses: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(responsesSheet); err != nil {
		return nil, "", fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("failed to remove default sheet: %w", err)
	}
	f.SetActiveSheet(0)

	headers := toAny(responseHeaders)
	for _, q := range form.Questions {
		headers = append(headers, q.Title)
	}
	if err := writeRow(f, 1, headers); err != nil {
		return nil, "", err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, "", err
	}
	if err := f.SetCellStyle(responsesSheet, "A1", last, style); err != nil {
		return nil, "", fmt.Errorf("failed to style header: %w", err)
	}

	for rowIndex, response := range responses {
		row := []any{
			response.SubmittedAt.Format("2006-01-02 15:04:05"),
			response.RespondentEmail,
			response.RespondentName,
			response.TotalTimeSpent,
			response.CompletionPercentage,
			yesNo(response.IsComplete),
			optionalFloat(response.TotalScore),
			optionalFloat(response.MaxTotalScore),
			optionalInt(response.ScorePercentage),
		}
		for i := range form.Questions {
			q := &form.Questions[i]
			answer, ok := response.Answer(q.ID)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, s.renderAnswer(q, answer.Answer))
		}
		if err := writeRow(f, rowIndex+2, row); err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported responses", "form_id", formID, "responses", len(responses))
	return buf.Bytes(), fmt.Sprintf("form-%d-responses.xlsx", formID), nil
}

func writeRow(f *excelize.File, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(responsesSheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}

// renderAnswer turns a stored answer into readable text, naming options,
// items and categories by their labels
func (s *exportService) renderAnswer(q *models.Question, raw any) string {
	if models.IsBlankAnswer(raw) {
		return ""
	}
	payload, err := models.DecodeAnswer(q.Type, raw)
	if err != nil {
		s.logger.Warn("Exporting undecodable answer as is", "question_id", q.ID, "error", err)
		return fmt.Sprint(raw)
	}

	switch a := payload.(type) {
	case models.SingleChoiceAnswer:
		return optionText(models.Choices(q.Config), a.OptionID)
	case models.MultiChoiceAnswer:
		return joinOptions(models.Choices(q.Config), a.OptionIDs)
	case models.CategorizeAnswer:
		cfg, ok := q.Config.(*models.CategorizeConfig)
		if !ok {
			break
		}
		var parts []string
		for _, item := range cfg.Items {
			categoryID, ok := a.Assignments[item.ID]
			if !ok {
				continue
			}
			parts = append(parts, item.Text+": "+categoryLabel(cfg.Categories, categoryID))
		}
		return strings.Join(parts, "; ")
	case models.ClozeAnswer:
		parts := make([]string, 0, len(a.Blanks))
		for _, i := range a.SortedBlankIndexes() {
			parts = append(parts, a.Get(i))
		}
		return strings.Join(parts, "; ")
	case models.ComprehensionAnswer:
		cfg, ok := q.Config.(*models.ComprehensionConfig)
		if !ok {
			break
		}
		var parts []string
		for _, sub := range cfg.SubQuestions {
			response, ok := a.Responses[sub.ID]
			if !ok {
				continue
			}
			parts = append(parts, sub.Question+": "+renderSubAnswer(sub, response))
		}
		return strings.Join(parts, "; ")
	case models.ImageAnswer:
		parts := make([]string, 0, len(a.Images)+1)
		if a.Text != "" {
			parts = append(parts, a.Text)
		}
		for _, image := range a.Images {
			parts = append(parts, image.URL)
		}
		return strings.Join(parts, "; ")
	}
	return fmt.Sprint(payload.Value())
}

func renderSubAnswer(sub models.SubQuestion, response models.SubAnswer) string {
	switch {
	case response.Flag != nil:
		if *response.Flag {
			return "True"
		}
		return "False"
	case response.IsList:
		return joinOptions(sub.Options, response.Choices)
	case len(sub.Options) > 0:
		return optionText(sub.Options, response.Text)
	}
	return response.Text
}

func optionText(options []models.Option, id string) string {
	for _, o := range options {
		if o.ID == id {
			return o.Text
		}
	}
	return id
}

func joinOptions(options []models.Option, ids []string) string {
	texts := make([]string, len(ids))
	for i, id := range ids {
		texts[i] = optionText(options, id)
	}
	return strings.Join(texts, ", ")
}

func categoryLabel(categories []models.Category, id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Label
		}
	}
	return id
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
