package database

import (
	"gorm.io/gorm"

	"github.com/kisy34/foodgram-project-react3/internal/models"
)

// Migrate runs GORM auto-migration for the full schema. Order matters:
// referenced tables first, edge tables last.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
	)
}
