package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ingredient is a single entry in a recipe's ingredient list.
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// IngredientList is a custom type for storing ingredient lists in JSONB
type IngredientList []Ingredient

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// StringList is a custom type for storing string arrays in JSONB
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Difficulty levels accepted on a recipe.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Recipe is the persisted recipe entity. Ingredient and instruction order
// is a display order and is preserved verbatim.
type Recipe struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Title        string         `gorm:"size:100;not null" json:"title"`
	Description  string         `gorm:"size:500;not null" json:"description"`
	Ingredients  IngredientList `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions StringList     `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	CookingTime  int            `gorm:"not null" json:"cookingTime"`
	Servings     int            `gorm:"not null" json:"servings"`
	Difficulty   string         `gorm:"size:20;not null" json:"difficulty"`
	Cuisine      string         `gorm:"size:100;not null" json:"cuisine"`
	Author       string         `gorm:"size:100;not null" json:"author"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Normalize trims the free-text fields. Called before Validate so that
// whitespace-only input fails the required checks.
func (r *Recipe) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Cuisine = strings.TrimSpace(r.Cuisine)
	r.Author = strings.TrimSpace(r.Author)
}

// Validate checks every field constraint and returns one human-readable
// message per violation, in field order. An empty slice means the recipe
// may be persisted. Validate never fills defaults; a missing required
// field is a violation.
func (r *Recipe) Validate() []string {
	var messages []string

	if r.Title == "" {
		messages = append(messages, "Recipe title is required")
	} else if len([]rune(r.Title)) > 100 {
		messages = append(messages, "Title cannot be more than 100 characters")
	}

	if r.Description == "" {
		messages = append(messages, "Recipe description is required")
	} else if len([]rune(r.Description)) > 500 {
		messages = append(messages, "Description cannot be more than 500 characters")
	}

	if len(r.Ingredients) == 0 {
		messages = append(messages, "At least one ingredient is required")
	} else {
		for i, ing := range r.Ingredients {
			if strings.TrimSpace(ing.Name) == "" {
				messages = append(messages, fmt.Sprintf("Ingredient %d: name is required", i+1))
			}
			if ing.Amount < 0 {
				messages = append(messages, fmt.Sprintf("Ingredient %d: amount must not be negative", i+1))
			}
			if strings.TrimSpace(ing.Unit) == "" {
				messages = append(messages, fmt.Sprintf("Ingredient %d: unit is required", i+1))
			}
		}
	}

	if len(r.Instructions) == 0 {
		messages = append(messages, "At least one instruction is required")
	} else {
		for i, step := range r.Instructions {
			if strings.TrimSpace(step) == "" {
				messages = append(messages, fmt.Sprintf("Instruction %d must not be empty", i+1))
			}
		}
	}

	switch {
	case r.CookingTime == 0:
		messages = append(messages, "Cooking time is required")
	case r.CookingTime < 1:
		messages = append(messages, "Cooking time must be at least 1 minute")
	}

	switch {
	case r.Servings == 0:
		messages = append(messages, "Number of servings is required")
	case r.Servings < 1:
		messages = append(messages, "Servings must be at least 1")
	}

	switch r.Difficulty {
	case "":
		messages = append(messages, "Difficulty level is required")
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		messages = append(messages, "Difficulty must be one of easy, medium or hard")
	}

	if r.Cuisine == "" {
		messages = append(messages, "Cuisine type is required")
	}

	if r.Author == "" {
		messages = append(messages, "Author name is required")
	}

	return messages
}
