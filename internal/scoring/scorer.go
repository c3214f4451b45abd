// Package scoring grades answers against the answer key embedded in each
// question config.
package scoring

import (
	"log/slog"
	"math"

	"github.com/SAP-F-2025/form-service/internal/models"
)

// Strategy grades one question type. Implementations return raw points;
// the Scorer clamps them to [0, maxScore].
type Strategy interface {
	Score(q *models.Question, answer models.AnswerPayload, maxScore float64) float64
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(q *models.Question, answer models.AnswerPayload, maxScore float64) float64

func (f StrategyFunc) Score(q *models.Question, answer models.AnswerPayload, maxScore float64) float64 {
	return f(q, answer, maxScore)
}

type Option func(*config)

type config struct {
	strictComprehension bool
	scoreChoices        bool
	logger              *slog.Logger
	overrides           map[models.QuestionType]Strategy
}

// WithStrictComprehension scores comprehension sub-questions by strict
// equality of the answer against a truthy correctAnswer, ignoring
// short-answer lists, case folding and multi-select sets. Documents graded
// before richer comprehension scoring need it to reproduce old scores.
func WithStrictComprehension() Option {
	return func(c *config) { c.strictComprehension = true }
}

// WithChoiceScoring grades mcq and mca questions against their isCorrect
// options. Without it they score 0.
func WithChoiceScoring() Option {
	return func(c *config) { c.scoreChoices = true }
}

// WithLogger sets the logger used to report questions that cannot be scored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithStrategy replaces the strategy of one question type.
func WithStrategy(t models.QuestionType, s Strategy) Option {
	return func(c *config) {
		if c.overrides == nil {
			c.overrides = map[models.QuestionType]Strategy{}
		}
		c.overrides[t] = s
	}
}

// Scorer routes each question to the strategy of its type. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	strategies map[models.QuestionType]Strategy
	logger     *slog.Logger
}

// NewScorer installs a strategy for every known question type.
func NewScorer(opts ...Option) *Scorer {
	cfg := &config{logger: slog.Default()}
	for _, o := range opts {
		o(cfg)
	}

	strategies := map[models.QuestionType]Strategy{
		models.QuestionTypeMCQ:           zeroStrategy{},
		models.QuestionTypeMCA:           zeroStrategy{},
		models.QuestionTypeCategorize:    categorizeStrategy{},
		models.QuestionTypeCloze:         clozeStrategy{},
		models.QuestionTypeComprehension: comprehensionStrategy{strict: cfg.strictComprehension},
		models.QuestionTypeImage:         zeroStrategy{},
	}
	if cfg.scoreChoices {
		strategies[models.QuestionTypeMCQ] = singleChoiceStrategy{}
		strategies[models.QuestionTypeMCA] = multiChoiceStrategy{}
	}
	for t, s := range cfg.overrides {
		strategies[t] = s
	}

	return &Scorer{strategies: strategies, logger: cfg.logger}
}

// ScoreQuestion grades answer against q's answer key. The result lies in
// [0, q.MaxScore()]. Unknown types and answers of the wrong variant are
// logged and score 0 so one bad question cannot fail a submission.
func (s *Scorer) ScoreQuestion(q *models.Question, answer models.AnswerPayload) float64 {
	maxScore := q.MaxScore()

	strategy, ok := s.strategies[q.Type]
	if !ok {
		s.logger.Warn("No scoring strategy for question type",
			"question_id", q.ID,
			"question_type", q.Type)
		return 0
	}
	if q.Config == nil || q.Config.QuestionType() != q.Type {
		s.logger.Warn("Question config does not match its type",
			"question_id", q.ID,
			"question_type", q.Type)
		return 0
	}
	if answer != nil && answer.QuestionType() != q.Type {
		s.logger.Warn("Answer does not match question type",
			"question_id", q.ID,
			"question_type", q.Type,
			"answer_type", answer.QuestionType())
		return 0
	}

	return clamp(strategy.Score(q, answer, maxScore), maxScore)
}

func clamp(score, maxScore float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// proportional converts a correct/total ratio into whole points.
func proportional(correct, total int, maxScore float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct) / float64(total) * maxScore)
}
