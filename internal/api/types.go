package api

import (
	"github.com/recipeshare/backend/internal/models"
)

// IngredientRequest is one ingredient entry in a candidate body.
type IngredientRequest struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// RecipeRequest is the caller-supplied candidate body for create and
// update. Binding rejects type-malformed bodies before the store is
// touched; field constraints stay with the store's validation, which is
// the single source of truth.
type RecipeRequest struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Ingredients  []IngredientRequest `json:"ingredients"`
	Instructions []string            `json:"instructions"`
	CookingTime  int                 `json:"cookingTime"`
	Servings     int                 `json:"servings"`
	Difficulty   string              `json:"difficulty"`
	Cuisine      string              `json:"cuisine"`
	Author       string              `json:"author"`
}

// ToModel converts the request body into an unvalidated candidate.
func (r *RecipeRequest) ToModel() *models.Recipe {
	ingredients := make(models.IngredientList, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = models.Ingredient{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
		}
	}

	return &models.Recipe{
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  ingredients,
		Instructions: models.StringList(r.Instructions),
		CookingTime:  r.CookingTime,
		Servings:     r.Servings,
		Difficulty:   r.Difficulty,
		Cuisine:      r.Cuisine,
		Author:       r.Author,
	}
}
