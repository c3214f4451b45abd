package builder

import (
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/models"
)

type CategoryUpdate struct {
	Label *string
	Color *string
}

type ItemUpdate struct {
	Text *string
	// CorrectCategory set to "" clears the answer key of the item.
	CorrectCategory *string
}

func categorizeConfig(q *models.Question) (*models.CategorizeConfig, error) {
	cfg, ok := q.Config.(*models.CategorizeConfig)
	if !ok {
		return nil, ErrWrongQuestionType
	}
	return cfg, nil
}

// AddCategory appends a category colored from the palette. An empty label
// becomes "Category <n>".
func AddCategory(q *models.Question, label string) (*models.Category, error) {
	cfg, err := categorizeConfig(q)
	if err != nil {
		return nil, err
	}
	n := len(cfg.Categories)
	if label == "" {
		label = fmt.Sprintf("Category %d", n+1)
	}
	cfg.Categories = append(cfg.Categories, models.Category{
		ID:    newID("cat"),
		Label: label,
		Color: models.CategoryColors[n%len(models.CategoryColors)],
	})
	return &cfg.Categories[n], nil
}

func UpdateCategory(q *models.Question, categoryID string, update CategoryUpdate) error {
	cfg, err := categorizeConfig(q)
	if err != nil {
		return err
	}
	for i := range cfg.Categories {
		if cfg.Categories[i].ID != categoryID {
			continue
		}
		if update.Label != nil {
			cfg.Categories[i].Label = *update.Label
		}
		if update.Color != nil {
			cfg.Categories[i].Color = *update.Color
		}
		return nil
	}
	return ErrCategoryNotFound
}

// RemoveCategory deletes a category and clears the correct category of
// every item that pointed at it.
func RemoveCategory(q *models.Question, categoryID string) error {
	cfg, err := categorizeConfig(q)
	if err != nil {
		return err
	}
	idx := categoryIndex(cfg, categoryID)
	if idx < 0 {
		return ErrCategoryNotFound
	}
	if len(cfg.Categories) == 1 {
		return ErrMinimumEntries
	}
	cfg.Categories = append(cfg.Categories[:idx], cfg.Categories[idx+1:]...)
	for i := range cfg.Items {
		if cfg.Items[i].CorrectCategory == categoryID {
			cfg.Items[i].CorrectCategory = ""
		}
	}
	return nil
}

func categoryIndex(cfg *models.CategorizeConfig, id string) int {
	for i, c := range cfg.Categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// AddItem appends an item keyed to the first category. An empty text
// becomes "Item <n>".
func AddItem(q *models.Question, text string) (*models.CategorizeItem, error) {
	cfg, err := categorizeConfig(q)
	if err != nil {
		return nil, err
	}
	n := len(cfg.Items)
	if text == "" {
		text = fmt.Sprintf("Item %d", n+1)
	}
	item := models.CategorizeItem{ID: newID("item"), Text: text}
	if len(cfg.Categories) > 0 {
		item.CorrectCategory = cfg.Categories[0].ID
	}
	cfg.Items = append(cfg.Items, item)
	return &cfg.Items[n], nil
}

// UpdateItem changes an item. A non-empty correct category must exist.
func UpdateItem(q *models.Question, itemID string, update ItemUpdate) error {
	cfg, err := categorizeConfig(q)
	if err != nil {
		return err
	}
	if update.CorrectCategory != nil && *update.CorrectCategory != "" &&
		categoryIndex(cfg, *update.CorrectCategory) < 0 {
		return ErrCategoryNotFound
	}
	for i := range cfg.Items {
		if cfg.Items[i].ID != itemID {
			continue
		}
		if update.Text != nil {
			cfg.Items[i].Text = *update.Text
		}
		if update.CorrectCategory != nil {
			cfg.Items[i].CorrectCategory = *update.CorrectCategory
		}
		return nil
	}
	return ErrItemNotFound
}

func RemoveItem(q *models.Question, itemID string) error {
	cfg, err := categorizeConfig(q)
	if err != nil {
		return err
	}
	for i, item := range cfg.Items {
		if item.ID != itemID {
			continue
		}
		if len(cfg.Items) == 1 {
			return ErrMinimumEntries
		}
		cfg.Items = append(cfg.Items[:i], cfg.Items[i+1:]...)
		return nil
	}
	return ErrItemNotFound
}
