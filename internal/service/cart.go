package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisy34/foodgram-project-react3/internal/models"
)

// IngredientTotal is one aggregated line of the shopping-list export
type IngredientTotal struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// CartService handles the favorite and shopping-cart edges plus the
// aggregation export. Both edges share the same toggle shape.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// Favorite adds the recipe to the user's favorites
func (s *CartService) Favorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	return s.addEdge(ctx, userID, recipeID, &models.Favorite{}, ErrAlreadyFavorited)
}

// Unfavorite removes the recipe from the user's favorites
func (s *CartService) Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeEdge(ctx, userID, recipeID, &models.Favorite{}, ErrFavoriteNotFound)
}

// AddToCart adds the recipe to the user's shopping cart
func (s *CartService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	return s.addEdge(ctx, userID, recipeID, &models.ShoppingCart{}, ErrAlreadyInCart)
}

// RemoveFromCart removes the recipe from the user's shopping cart
func (s *CartService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeEdge(ctx, userID, recipeID, &models.ShoppingCart{}, ErrCartEntryNotFound)
}

// IsFavorited reports whether the viewer has favorited the recipe
func (s *CartService) IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// IsInCart reports whether the recipe is in the viewer's shopping cart
func (s *CartService) IsInCart(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ShoppingCart{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// Aggregate sums the quantity rows of every recipe in the user's cart,
// grouped by ingredient name and unit, ordered by name. Computed fresh on
// every call.
func (s *CartService) Aggregate(ctx context.Context, userID uuid.UUID) ([]IngredientTotal, error) {
	var totals []IngredientTotal
	err := s.db.WithContext(ctx).
		Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (s *CartService) addEdge(ctx context.Context, userID, recipeID uuid.UUID, edge interface{}, conflictErr error) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(edge).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, conflictErr
	}

	switch e := edge.(type) {
	case *models.Favorite:
		e.UserID = userID
		e.RecipeID = recipeID
	case *models.ShoppingCart:
		e.UserID = userID
		e.RecipeID = recipeID
	}
	if err := s.db.WithContext(ctx).Create(edge).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *CartService) removeEdge(ctx context.Context, userID, recipeID uuid.UUID, edge interface{}, missingErr error) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(edge)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return missingErr
	}
	return nil
}
