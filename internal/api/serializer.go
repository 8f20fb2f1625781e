package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/kisy34/foodgram-project-react3/internal/models"
	"github.com/kisy34/foodgram-project-react3/internal/service"
)

// Serializer maps store rows to response payloads. The viewer id is passed
// explicitly; a nil viewer means anonymous and every viewer-relative flag
// serializes as false.
type Serializer struct {
	follows *service.FollowService
	carts   *service.CartService
	recipes *service.RecipeService
}

func NewSerializer(follows *service.FollowService, carts *service.CartService, recipes *service.RecipeService) *Serializer {
	return &Serializer{follows: follows, carts: carts, recipes: recipes}
}

func (s *Serializer) User(ctx context.Context, user models.User, viewer *uuid.UUID) (UserResponse, error) {
	resp := UserResponse{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if viewer != nil {
		subscribed, err := s.follows.IsFollowing(ctx, *viewer, user.ID)
		if err != nil {
			return UserResponse{}, err
		}
		resp.IsSubscribed = subscribed
	}
	return resp, nil
}

// Recipe builds the full read shape. Expects Author, Tags and
// Ingredients.Ingredient preloaded.
func (s *Serializer) Recipe(ctx context.Context, recipe models.Recipe, viewer *uuid.UUID) (RecipeResponse, error) {
	author, err := s.User(ctx, recipe.Author, viewer)
	if err != nil {
		return RecipeResponse{}, err
	}

	tags := make([]TagResponse, 0, len(recipe.Tags))
	for _, tag := range recipe.Tags {
		tags = append(tags, TagResponse{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug})
	}

	ingredients := make([]RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		ingredients = append(ingredients, RecipeIngredientResponse{
			ID:              row.Ingredient.ID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	resp := RecipeResponse{
		ID:          recipe.ID,
		Tags:        tags,
		Author:      author,
		Ingredients: ingredients,
		Name:        recipe.Name,
		Image:       recipe.Image,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
	}

	if viewer != nil {
		favorited, err := s.carts.IsFavorited(ctx, *viewer, recipe.ID)
		if err != nil {
			return RecipeResponse{}, err
		}
		inCart, err := s.carts.IsInCart(ctx, *viewer, recipe.ID)
		if err != nil {
			return RecipeResponse{}, err
		}
		resp.IsFavorited = favorited
		resp.IsInShoppingCart = inCart
	}
	return resp, nil
}

func (s *Serializer) CompactRecipe(recipe models.Recipe) CompactRecipeResponse {
	return CompactRecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// Follow flattens a follow edge into the followed author's profile plus a
// capped recipe list. is_subscribed is computed from (viewer, edge.author),
// so in a user's own subscription list it is always true.
func (s *Serializer) Follow(ctx context.Context, follow models.Follow, viewer uuid.UUID, recipeLimit int) (FollowResponse, error) {
	subscribed, err := s.follows.IsFollowing(ctx, viewer, follow.AuthorID)
	if err != nil {
		return FollowResponse{}, err
	}

	recipes, err := s.recipes.ListByAuthor(ctx, follow.AuthorID, recipeLimit)
	if err != nil {
		return FollowResponse{}, err
	}
	compact := make([]CompactRecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		compact = append(compact, s.CompactRecipe(r))
	}

	count, err := s.recipes.CountByAuthor(ctx, follow.AuthorID)
	if err != nil {
		return FollowResponse{}, err
	}

	return FollowResponse{
		Email:        follow.Author.Email,
		ID:           follow.Author.ID,
		Username:     follow.Author.Username,
		FirstName:    follow.Author.FirstName,
		LastName:     follow.Author.LastName,
		IsSubscribed: subscribed,
		Recipes:      compact,
		RecipesCount: count,
	}, nil
}
