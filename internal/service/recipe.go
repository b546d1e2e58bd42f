package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recipeshare/backend/internal/models"
)

// RecipeService owns the recipe lifecycle. Validation runs before every
// write; an invalid candidate is never persisted, not even partially.
type RecipeService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		db:     db,
		logger: logger,
	}
}

// CreateRecipe validates the candidate and persists it with a fresh id.
// Timestamps are set by gorm at insert time.
func (s *RecipeService) CreateRecipe(ctx context.Context, candidate *models.Recipe) (*models.Recipe, error) {
	candidate.Normalize()
	if messages := candidate.Validate(); len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	candidate.ID = uuid.New()
	if err := s.db.WithContext(ctx).Create(candidate).Error; err != nil {
		return nil, err
	}
	return candidate, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns all recipes, most recently created first.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// recipeUpdateColumns is the full mutable field set; id and created_at are
// never touched by an update.
var recipeUpdateColumns = []string{
	"title", "description", "ingredients", "instructions",
	"cooking_time", "servings", "difficulty", "cuisine", "author",
}

// UpdateRecipe validates the candidate and replaces the whole mutable
// field set in a single id-keyed statement, so two concurrent updates
// cannot interleave into a partial merge. updated_at is refreshed by gorm.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, candidate *models.Recipe) (*models.Recipe, error) {
	candidate.Normalize()
	if messages := candidate.Validate(); len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	result := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", id).
		Select(recipeUpdateColumns).
		Updates(candidate)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecipeNotFound
	}

	return s.GetRecipe(ctx, id)
}

// DeleteRecipe removes a recipe permanently. A repeated delete reports
// not-found even though the record is gone either way.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}
