package scoring

import (
	"strings"

	"github.com/SAP-F-2025/form-service/internal/models"
)

// zeroStrategy gives no credit. mcq, mca and image questions are not
// auto-graded unless choice scoring is enabled.
type zeroStrategy struct{}

func (zeroStrategy) Score(*models.Question, models.AnswerPayload, float64) float64 {
	return 0
}

// categorizeStrategy awards the share of keyed items placed in their
// correct category. Without any keyed item every answer earns full credit.
type categorizeStrategy struct{}

func (categorizeStrategy) Score(q *models.Question, answer models.AnswerPayload, maxScore float64) float64 {
	cfg := q.Config.(*models.CategorizeConfig)
	given, _ := answer.(models.CategorizeAnswer)

	total, correct := 0, 0
	for _, item := range cfg.Items {
		if item.CorrectCategory == "" {
			continue
		}
		total++
		if given.Assignments[item.ID] == item.CorrectCategory {
			correct++
		}
	}
	if total == 0 {
		return maxScore
	}
	return proportional(correct, total, maxScore)
}

// clozeStrategy awards the share of blanks filled with one of their
// accepted answers. Blank i of the config is compared with blank i of the
// answer.
type clozeStrategy struct{}

func (clozeStrategy) Score(q *models.Question, answer models.AnswerPayload, maxScore float64) float64 {
	cfg := q.Config.(*models.ClozeConfig)
	given, _ := answer.(models.ClozeAnswer)

	correct := 0
	for i, blank := range cfg.Blanks {
		if matchesAny(given.Get(i), blank.CorrectAnswers, blank.CaseSensitive) {
			correct++
		}
	}
	return proportional(correct, len(cfg.Blanks), maxScore)
}

// matchesAny compares trimmed text against each accepted answer.
func matchesAny(text string, accepted []string, caseSensitive bool) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, candidate := range accepted {
		candidate = strings.TrimSpace(candidate)
		if caseSensitive {
			if text == candidate {
				return true
			}
		} else if strings.EqualFold(text, candidate) {
			return true
		}
	}
	return false
}

// comprehensionStrategy awards the share of keyed sub-questions answered
// correctly. Without any keyed sub-question every answer earns full credit.
type comprehensionStrategy struct {
	strict bool
}

func (s comprehensionStrategy) Score(q *models.Question, answer models.AnswerPayload, maxScore float64) float64 {
	cfg := q.Config.(*models.ComprehensionConfig)
	given, _ := answer.(models.ComprehensionAnswer)

	total, correct := 0, 0
	for i := range cfg.SubQuestions {
		sub := &cfg.SubQuestions[i]
		response, answered := given.Responses[sub.ID]

		if s.strict {
			if !truthy(sub.CorrectAnswer) {
				continue
			}
			total++
			if answered && strictEqual(response.Value(), sub.CorrectAnswer) {
				correct++
			}
			continue
		}

		if !sub.HasAnswerKey() {
			continue
		}
		total++
		if answered && subAnswerCorrect(sub, response) {
			correct++
		}
	}
	if total == 0 {
		return maxScore
	}
	return proportional(correct, total, maxScore)
}

func subAnswerCorrect(sub *models.SubQuestion, response models.SubAnswer) bool {
	switch sub.Type {
	case models.SubQuestionMCQ:
		if response.IsList || response.Text == "" {
			return false
		}
		if key, ok := sub.CorrectText(); ok {
			return response.Text == key
		}
		for _, id := range sub.CorrectOptionIDs() {
			if response.Text == id {
				return true
			}
		}
		return false
	case models.SubQuestionMCA:
		return response.IsList && sameSet(response.Choices, sub.CorrectOptionIDs())
	case models.SubQuestionTrueFalse:
		key, _ := sub.CorrectBool()
		if response.Flag != nil {
			return *response.Flag == key
		}
		switch strings.TrimSpace(response.Text) {
		case "true":
			return key
		case "false":
			return !key
		}
		return false
	case models.SubQuestionShortAnswer:
		return !response.IsList && matchesAny(response.Text, sub.CorrectAnswers, sub.CaseSensitive)
	}
	return false
}

func sameSet(a, b []string) bool {
	as := toSet(a)
	bs := toSet(b)
	if len(as) != len(bs) {
		return false
	}
	for k := range as {
		if _, ok := bs[k]; !ok {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// truthy mirrors how stored documents flagged a sub-question as keyed.
func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	case float64:
		return value != 0
	}
	return true
}

// strictEqual compares scalars of the same kind only; lists never match.
func strictEqual(given, key any) bool {
	switch k := key.(type) {
	case string:
		g, ok := given.(string)
		return ok && g == k
	case bool:
		g, ok := given.(bool)
		return ok && g == k
	case float64:
		g, ok := given.(float64)
		return ok && g == k
	}
	return false
}

// singleChoiceStrategy gives full credit for selecting a correct option.
type singleChoiceStrategy struct{}

func (singleChoiceStrategy) Score(q *models.Question, answer models.AnswerPayload, maxScore float64) float64 {
	correctIDs := models.CorrectOptionIDs(q.Config)
	if len(correctIDs) == 0 {
		return maxScore
	}
	given, _ := answer.(models.SingleChoiceAnswer)
	for _, id := range correctIDs {
		if given.OptionID == id {
			return maxScore
		}
	}
	return 0
}

// multiChoiceStrategy gives full credit only for the exact correct set.
type multiChoiceStrategy struct{}

func (multiChoiceStrategy) Score(q *models.Question, answer models.AnswerPayload, maxScore float64) float64 {
	correctIDs := models.CorrectOptionIDs(q.Config)
	if len(correctIDs) == 0 {
		return maxScore
	}
	given, ok := answer.(models.MultiChoiceAnswer)
	if !ok || !sameSet(given.OptionIDs, correctIDs) {
		return 0
	}
	return maxScore
}
