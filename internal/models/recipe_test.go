package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRecipe() Recipe {
	return Recipe{
		Title:       "Pancakes",
		Description: "Fluffy",
		Ingredients: IngredientList{
			{Name: "flour", Amount: 200, Unit: "g"},
		},
		Instructions: StringList{"Mix", "Cook"},
		CookingTime:  15,
		Servings:     2,
		Difficulty:   DifficultyEasy,
		Cuisine:      "American",
		Author:       "Ana",
	}
}

func TestValidateValidRecipe(t *testing.T) {
	r := validRecipe()
	r.Normalize()
	assert.Empty(t, r.Validate())
}

func TestValidateFieldViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Recipe)
		message string
	}{
		{"empty title", func(r *Recipe) { r.Title = "" }, "Recipe title is required"},
		{"whitespace title", func(r *Recipe) { r.Title = "   " }, "Recipe title is required"},
		{"long title", func(r *Recipe) { r.Title = strings.Repeat("a", 101) }, "Title cannot be more than 100 characters"},
		{"empty description", func(r *Recipe) { r.Description = "" }, "Recipe description is required"},
		{"long description", func(r *Recipe) { r.Description = strings.Repeat("d", 501) }, "Description cannot be more than 500 characters"},
		{"no ingredients", func(r *Recipe) { r.Ingredients = nil }, "At least one ingredient is required"},
		{"ingredient without name", func(r *Recipe) { r.Ingredients[0].Name = "" }, "Ingredient 1: name is required"},
		{"negative amount", func(r *Recipe) { r.Ingredients[0].Amount = -1 }, "Ingredient 1: amount must not be negative"},
		{"ingredient without unit", func(r *Recipe) { r.Ingredients[0].Unit = "" }, "Ingredient 1: unit is required"},
		{"no instructions", func(r *Recipe) { r.Instructions = nil }, "At least one instruction is required"},
		{"blank instruction", func(r *Recipe) { r.Instructions = StringList{"Mix", " "} }, "Instruction 2 must not be empty"},
		{"missing cooking time", func(r *Recipe) { r.CookingTime = 0 }, "Cooking time is required"},
		{"negative cooking time", func(r *Recipe) { r.CookingTime = -5 }, "Cooking time must be at least 1 minute"},
		{"missing servings", func(r *Recipe) { r.Servings = 0 }, "Number of servings is required"},
		{"negative servings", func(r *Recipe) { r.Servings = -2 }, "Servings must be at least 1"},
		{"missing difficulty", func(r *Recipe) { r.Difficulty = "" }, "Difficulty level is required"},
		{"unknown difficulty", func(r *Recipe) { r.Difficulty = "extreme" }, "Difficulty must be one of easy, medium or hard"},
		{"empty cuisine", func(r *Recipe) { r.Cuisine = "" }, "Cuisine type is required"},
		{"empty author", func(r *Recipe) { r.Author = "  " }, "Author name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecipe()
			tt.mutate(&r)
			r.Normalize()
			assert.Contains(t, r.Validate(), tt.message)
		})
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	r := Recipe{}
	messages := r.Validate()
	assert.Equal(t, []string{
		"Recipe title is required",
		"Recipe description is required",
		"At least one ingredient is required",
		"At least one instruction is required",
		"Cooking time is required",
		"Number of servings is required",
		"Difficulty level is required",
		"Cuisine type is required",
		"Author name is required",
	}, messages)
}

func TestNormalizeTrims(t *testing.T) {
	r := validRecipe()
	r.Title = "  Pancakes  "
	r.Cuisine = "\tAmerican\n"
	r.Normalize()
	assert.Equal(t, "Pancakes", r.Title)
	assert.Equal(t, "American", r.Cuisine)
}
