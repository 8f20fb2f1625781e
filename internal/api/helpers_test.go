package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kisy34/foodgram-project-react3/internal/api"
	"github.com/kisy34/foodgram-project-react3/internal/database"
	"github.com/kisy34/foodgram-project-react3/internal/models"
	"github.com/kisy34/foodgram-project-react3/internal/router"
	"github.com/kisy34/foodgram-project-react3/internal/service"
)

// newTestRouter wires the full route table against an in-memory database,
// the same composition the server package does at startup.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	authService := service.NewAuthService(db, nil, "test-secret")
	userService := service.NewUserService(db)
	followService := service.NewFollowService(db)
	recipeService := service.NewRecipeService(db, service.NewLocalImageStore(t.TempDir()))
	cartService := service.NewCartService(db)
	tagService := service.NewTagService(db)
	ingredientService := service.NewIngredientService(db)

	serializer := api.NewSerializer(followService, cartService, recipeService)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(userService, serializer, authService),
		api.NewFollowHandler(followService, serializer, authService),
		api.NewTagHandler(tagService),
		api.NewIngredientHandler(ingredientService),
		api.NewRecipeHandler(recipeService, cartService, serializer, authService),
	)
	return engine, db
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// registerAndLogin creates a user through the API and returns a live token
func registerAndLogin(t *testing.T, engine *gin.Engine, username string) (string, uuid.UUID) {
	t.Helper()

	w := doRequest(t, engine, http.MethodPost, "/api/v1/users", "", gin.H{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created api.CreatedUserResponse
	decodeBody(t, w, &created)

	w = doRequest(t, engine, http.MethodPost, "/api/v1/auth/token/login", "", gin.H{
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var token api.TokenResponse
	decodeBody(t, w, &token)
	return token.AuthToken, created.ID
}

func seedTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

func recipePayload(name string, tagIDs []uuid.UUID, ingredients []gin.H) gin.H {
	return gin.H{
		"name":         name,
		"text":         "Instructions for " + name,
		"cooking_time": 15,
		"tags":         tagIDs,
		"ingredients":  ingredients,
	}
}
