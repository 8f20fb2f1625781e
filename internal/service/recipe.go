package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisy34/foodgram-project-react3/internal/models"
)

// IngredientAmount is one line of a recipe write payload
type IngredientAmount struct {
	ID     uuid.UUID
	Amount int
}

// RecipeInput is the validated write payload for create and update.
// Image is a base64 data URI; empty means "keep the stored image" on update.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	Image       string
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
}

// RecipeFilter composes the optional recipe list filters. Viewer is nil for
// anonymous callers, which turns the two boolean filters into no-ops.
type RecipeFilter struct {
	Author      *uuid.UUID
	TagSlugs    []string
	IsFavorited bool
	IsInCart    bool
	Viewer      *uuid.UUID
}

// RecipeService owns the recipe write pipeline and list queries
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// Create persists the header, the quantity rows and the tag set in one
// transaction. Authorship always comes from the caller, never the payload.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, input RecipeInput) (*models.Recipe, error) {
	if input.CookingTime < 1 {
		return nil, ErrInvalidCookingTime
	}
	rows, err := buildQuantityRows(input.Ingredients)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        input.Name,
		AuthorID:    authorID,
		Image:       imageURL,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, input.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, rows); err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return replaceTags(tx, &recipe, tags)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Update replaces the entire quantity-row set and overwrites all scalar
// fields; the image is only replaced when a new one was supplied. The whole
// replacement commits or rolls back as one unit.
func (s *RecipeService) Update(ctx context.Context, recipeID uuid.UUID, input RecipeInput) (*models.Recipe, error) {
	if input.CookingTime < 1 {
		return nil, ErrInvalidCookingTime
	}
	rows, err := buildQuantityRows(input.Ingredients)
	if err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"name":         input.Name,
		"text":         input.Text,
		"cooking_time": input.CookingTime,
	}
	if input.Image != "" {
		imageURL, err := s.storeImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		updates["image"] = imageURL
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, input.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, rows); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		return replaceTags(tx, &recipe, tags)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Get loads one recipe with author, tags and resolved ingredients
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Delete removes a recipe. Ownership is checked by the handler before this
// runs; edge rows go with the recipe via cascading deletes.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// List applies the filter composition and returns one page plus the total.
// Tag matching is set membership: a recipe qualifies when it carries at
// least one of the requested slugs.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter, page, limit int) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filter.Author != nil {
		query = query.Where("recipes.author_id = ?", *filter.Author)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := s.db.Model(&models.Recipe{}).
			Select("recipes.id").
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.IsFavorited && filter.Viewer != nil {
		favorited := s.db.Model(&models.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", *filter.Viewer)
		query = query.Where("recipes.id IN (?)", favorited)
	}
	if filter.IsInCart && filter.Viewer != nil {
		inCart := s.db.Model(&models.ShoppingCart{}).
			Select("recipe_id").
			Where("user_id = ?", *filter.Viewer)
		query = query.Where("recipes.id IN (?)", inCart)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	offset := (page - 1) * limit
	err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.pub_date DESC").
		Offset(offset).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor returns an author's recipes, newest first, optionally capped
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByAuthor returns how many recipes an author has published
func (s *RecipeService) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

func (s *RecipeService) storeImage(ctx context.Context, image string) (string, error) {
	if image == "" || s.images == nil {
		return "", nil
	}
	data, ext, err := DecodeBase64Image(image)
	if err != nil {
		return "", err
	}
	return s.images.Save(ctx, uuid.New().String()+ext, data)
}

// buildQuantityRows is a single linear pass over the submitted list: it
// keeps insertion order and fails the whole write on a repeated id.
func buildQuantityRows(ingredients []IngredientAmount) ([]models.RecipeIngredient, error) {
	rows := make([]models.RecipeIngredient, 0, len(ingredients))
	seen := make(map[uuid.UUID]struct{}, len(ingredients))
	for _, ing := range ingredients {
		if _, ok := seen[ing.ID]; ok {
			return nil, ErrDuplicateIngredient
		}
		seen[ing.ID] = struct{}{}
		rows = append(rows, models.RecipeIngredient{
			IngredientID: ing.ID,
			Amount:       ing.Amount,
		})
	}
	return rows, nil
}

func replaceTags(tx *gorm.DB, recipe *models.Recipe, tags []models.Tag) error {
	if len(tags) == 0 {
		return tx.Model(recipe).Association("Tags").Clear()
	}
	return tx.Model(recipe).Association("Tags").Replace(&tags)
}

func resolveTags(tx *gorm.DB, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ErrTagNotFound
	}
	return tags, nil
}

func checkIngredientsExist(tx *gorm.DB, rows []models.RecipeIngredient) error {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.IngredientID
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrIngredientNotFound
	}
	return nil
}
