package builder

import (
	"github.com/SAP-F-2025/form-service/internal/cloze"
	"github.com/SAP-F-2025/form-service/internal/models"
)

type BlankUpdate struct {
	CorrectAnswers []string
	CaseSensitive  *bool
}

func clozeConfig(q *models.Question) (*models.ClozeConfig, error) {
	cfg, ok := q.Config.(*models.ClozeConfig)
	if !ok {
		return nil, ErrWrongQuestionType
	}
	return cfg, nil
}

// SetClozeText replaces the text and re-derives the blanks from it.
func SetClozeText(q *models.Question, text string) error {
	cfg, err := clozeConfig(q)
	if err != nil {
		return err
	}
	cfg.Text = text
	cfg.Blanks = cloze.SyncBlanks(text, cfg.Blanks)
	return nil
}

// UpdateBlank changes the answer key of one blank. Empty accepted answers
// are dropped; a nil CorrectAnswers keeps the current ones.
func UpdateBlank(q *models.Question, blankID string, update BlankUpdate) error {
	cfg, err := clozeConfig(q)
	if err != nil {
		return err
	}
	for i := range cfg.Blanks {
		if cfg.Blanks[i].ID != blankID {
			continue
		}
		if update.CorrectAnswers != nil {
			answers := make([]string, 0, len(update.CorrectAnswers))
			for _, a := range update.CorrectAnswers {
				if a != "" {
					answers = append(answers, a)
				}
			}
			cfg.Blanks[i].CorrectAnswers = answers
		}
		if update.CaseSensitive != nil {
			cfg.Blanks[i].CaseSensitive = *update.CaseSensitive
		}
		return nil
	}
	return ErrBlankNotFound
}
