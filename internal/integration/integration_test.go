// Package integration exercises the service layer against a real PostgreSQL
// instance. Requires docker; gate with RUN_INTEGRATION_TESTS=true.
package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kisy34/foodgram-project-react3/internal/models"
	"github.com/kisy34/foodgram-project-react3/internal/service"
	"github.com/kisy34/foodgram-project-react3/internal/testdb"
)

func TestRecipePipelineOnPostgres(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test; set RUN_INTEGRATION_TESTS=true to run")
	}

	td := testdb.Setup(t)
	defer td.Close()
	db := td.DB
	ctx := context.Background()

	users := service.NewUserService(db)
	recipes := service.NewRecipeService(db, nil)
	carts := service.NewCartService(db)
	tags := service.NewTagService(db)

	author, err := users.Register(ctx, "author@example.com", "author", "Test", "Author", "password123")
	require.NoError(t, err)
	shopper, err := users.Register(ctx, "shopper@example.com", "shopper", "Test", "Shopper", "password123")
	require.NoError(t, err)

	breakfast, err := tags.Create(ctx, "Breakfast", "#E26C2D", "breakfast")
	require.NoError(t, err)

	flour := models.Ingredient{Name: "flour", MeasurementUnit: "g"}
	sugar := models.Ingredient{Name: "sugar", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&flour).Error)
	require.NoError(t, db.Create(&sugar).Error)

	pancakes, err := recipes.Create(ctx, author.ID, service.RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry",
		CookingTime: 20,
		TagIDs:      []uuid.UUID{breakfast.ID},
		Ingredients: []service.IngredientAmount{
			{ID: flour.ID, Amount: 200},
			{ID: sugar.ID, Amount: 50},
		},
	})
	require.NoError(t, err)

	bread, err := recipes.Create(ctx, author.ID, service.RecipeInput{
		Name:        "Bread",
		Text:        "Bake",
		CookingTime: 60,
		Ingredients: []service.IngredientAmount{{ID: flour.ID, Amount: 100}},
	})
	require.NoError(t, err)

	// the tag filter and the written rows survive the postgres round trip
	listed, total, err := recipes.List(ctx, service.RecipeFilter{TagSlugs: []string{"breakfast"}}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, "Pancakes", listed[0].Name)

	_, err = carts.AddToCart(ctx, shopper.ID, pancakes.ID)
	require.NoError(t, err)
	_, err = carts.AddToCart(ctx, shopper.ID, bread.ID)
	require.NoError(t, err)

	totals, err := carts.Aggregate(ctx, shopper.ID)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, service.IngredientTotal{Name: "flour", MeasurementUnit: "g", Total: 300}, totals[0])
	assert.Equal(t, service.IngredientTotal{Name: "sugar", MeasurementUnit: "g", Total: 50}, totals[1])
}
