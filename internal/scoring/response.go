package scoring

import (
	"math"

	"github.com/SAP-F-2025/form-service/internal/models"
)

// QuestionScore is the grade of one answered question.
type QuestionScore struct {
	QuestionID string  `json:"questionId"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"maxScore"`
}

// ResponseScore aggregates the graded answers of a response.
type ResponseScore struct {
	TotalScore      float64         `json:"totalScore"`
	MaxTotalScore   float64         `json:"maxTotalScore"`
	ScorePercentage int             `json:"scorePercentage"`
	PerQuestion     []QuestionScore `json:"perQuestion"`
}

// HasScores reports whether at least one answer was graded.
func (r ResponseScore) HasScores() bool {
	return len(r.PerQuestion) > 0
}

// ScoreResponse grades every answer whose question has scoring enabled.
// Answers to unknown questions are ignored. An answer that cannot be
// decoded scores 0 against its question's maximum.
func (s *Scorer) ScoreResponse(form *models.Form, answers []models.Answer) ResponseScore {
	var result ResponseScore
	for _, answer := range answers {
		q, ok := form.Question(answer.QuestionID)
		if !ok || !q.Scoring.Enabled {
			continue
		}

		score := 0.0
		payload, err := models.DecodeAnswer(q.Type, answer.Answer)
		if err != nil {
			s.logger.Warn("Skipping malformed answer while scoring",
				"question_id", q.ID,
				"question_type", q.Type,
				"error", err)
		} else {
			score = s.ScoreQuestion(q, payload)
		}

		result.PerQuestion = append(result.PerQuestion, QuestionScore{
			QuestionID: q.ID,
			Score:      score,
			MaxScore:   q.MaxScore(),
		})
		result.TotalScore += score
		result.MaxTotalScore += q.MaxScore()
	}
	result.ScorePercentage = percentage(result.TotalScore, result.MaxTotalScore)
	return result
}

// Aggregate totals the stored per-answer scores of a response. Answers
// without a score are left out of both sums.
func Aggregate(answers []models.Answer) ResponseScore {
	var result ResponseScore
	for _, answer := range answers {
		if answer.Score == nil {
			continue
		}
		maxScore := 0.0
		if answer.MaxScore != nil {
			maxScore = *answer.MaxScore
		}
		result.PerQuestion = append(result.PerQuestion, QuestionScore{
			QuestionID: answer.QuestionID,
			Score:      *answer.Score,
			MaxScore:   maxScore,
		})
		result.TotalScore += *answer.Score
		result.MaxTotalScore += maxScore
	}
	result.ScorePercentage = percentage(result.TotalScore, result.MaxTotalScore)
	return result
}

func percentage(total, maxTotal float64) int {
	if maxTotal <= 0 {
		return 0
	}
	return int(math.Round(total / maxTotal * 100))
}
