package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kisy34/foodgram-project-react3/internal/database"
	"github.com/kisy34/foodgram-project-react3/internal/models"
)

// openTestDB gives each test its own in-memory database. The shared cache
// keeps the database alive across the connections gorm opens internally.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "$2a$10$invalidhashforfixtureonly0000000000000000000000000000",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: colorFor(slug), Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// colorFor derives a unique hex color so fixtures never trip the unique
// constraint on tag colors.
func colorFor(slug string) string {
	sum := 0
	for _, r := range slug {
		sum += int(r)
	}
	return fmt.Sprintf("#%06X", sum%0xFFFFFF)
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

func createTestRecipe(t *testing.T, svc *RecipeService, authorID uuid.UUID, name string, tagIDs []uuid.UUID, ingredients []IngredientAmount) *models.Recipe {
	t.Helper()
	recipe, err := svc.Create(context.Background(), authorID, RecipeInput{
		Name:        name,
		Text:        "Instructions for " + name,
		CookingTime: 15,
		TagIDs:      tagIDs,
		Ingredients: ingredients,
	})
	require.NoError(t, err)
	return recipe
}
