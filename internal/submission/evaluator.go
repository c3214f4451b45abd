// Package submission turns a raw answer set into a stored, graded response
// body or rejects it as a whole.
package submission

import (
	"log/slog"
	"math"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/scoring"
	"github.com/SAP-F-2025/form-service/internal/validator"
)

// Result is an accepted submission ready to be stored.
type Result struct {
	Answers              []models.Answer
	CompletionPercentage int
	IsComplete           bool
	TotalTimeSpent       float64
	Score                scoring.ResponseScore
}

// Evaluator runs the required and well-formed gates and grades what passes.
type Evaluator struct {
	scorer *scoring.Scorer
	logger *slog.Logger
}

func NewEvaluator(scorer *scoring.Scorer, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{scorer: scorer, logger: logger}
}

// Evaluate checks submitted against questions. Answers to unknown
// questions are dropped and a repeated question keeps its last answer.
// Every failing question is reported in one *apperrors.SubmissionError,
// missing required answers first. totalTimeSpent <= 0 is replaced by the
// sum of per-answer time.
func (e *Evaluator) Evaluate(questions []models.Question, submitted []models.Answer, totalTimeSpent float64) (*Result, error) {
	byQuestion := make(map[string]models.Answer, len(submitted))
	for _, answer := range submitted {
		if !hasQuestion(questions, answer.QuestionID) {
			e.logger.Debug("Dropping answer to unknown question", "question_id", answer.QuestionID)
			continue
		}
		byQuestion[answer.QuestionID] = answer
	}

	var missing, malformed []apperrors.SubmissionIssue
	payloads := make(map[string]models.AnswerPayload, len(byQuestion))
	for i := range questions {
		q := &questions[i]
		answer, answered := byQuestion[q.ID]

		if q.Required && !validator.IsRequiredAnswerPresent(q, answer.Answer) {
			missing = append(missing, apperrors.SubmissionIssue{
				Code:          apperrors.CodeRequiredQuestionMissing,
				QuestionID:    q.ID,
				QuestionTitle: q.Title,
			})
		}
		if !answered {
			continue
		}

		payload, err := validator.CheckAnswerFormat(q, answer.Answer)
		if err != nil {
			malformed = append(malformed, apperrors.SubmissionIssue{
				Code:          apperrors.CodeInvalidAnswerFormat,
				QuestionID:    q.ID,
				QuestionTitle: q.Title,
				Reason:        err.Error(),
			})
			continue
		}
		payloads[q.ID] = payload
	}
	if issues := append(missing, malformed...); len(issues) > 0 {
		return nil, &apperrors.SubmissionError{Issues: issues}
	}

	result := &Result{}
	answered := 0
	timeSum := 0.0
	for i := range questions {
		q := &questions[i]
		answer, ok := byQuestion[q.ID]
		if !ok {
			continue
		}

		stored := models.Answer{
			QuestionID:   q.ID,
			QuestionType: q.Type,
			TimeSpent:    math.Max(answer.TimeSpent, 0),
		}
		payload := payloads[q.ID]
		if payload != nil {
			stored.Answer = payload.Value()
		}
		if q.Scoring.Enabled {
			score := e.scorer.ScoreQuestion(q, payload)
			maxScore := q.MaxScore()
			stored.Score = &score
			stored.MaxScore = &maxScore
		}
		if !models.IsBlankAnswer(stored.Answer) {
			answered++
		}
		timeSum += stored.TimeSpent
		result.Answers = append(result.Answers, stored)
	}

	result.CompletionPercentage = completion(answered, len(questions))
	result.IsComplete = result.CompletionPercentage == 100
	result.TotalTimeSpent = totalTimeSpent
	if totalTimeSpent <= 0 {
		result.TotalTimeSpent = timeSum
	}
	result.Score = scoring.Aggregate(result.Answers)
	return result, nil
}

func hasQuestion(questions []models.Question, id string) bool {
	for i := range questions {
		if questions[i].ID == id {
			return true
		}
	}
	return false
}

func completion(answered, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(answered) / float64(total) * 100))
}
