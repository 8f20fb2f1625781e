// Command importcsv bulk-loads ingredient reference data from a CSV file
// with "name,measurement_unit" rows.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/kisy34/foodgram-project-react3/config"
	"github.com/kisy34/foodgram-project-react3/internal/database"
	"github.com/kisy34/foodgram-project-react3/internal/models"
	"github.com/kisy34/foodgram-project-react3/internal/service"
)

func main() {
	path := flag.String("file", "ingredients.csv", "path to the ingredients CSV file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 2

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to parse CSV: %v", err)
	}

	ingredients := make([]models.Ingredient, 0, len(records))
	for _, record := range records {
		ingredients = append(ingredients, models.Ingredient{
			Name:            record[0],
			MeasurementUnit: record[1],
		})
	}

	count, err := service.NewIngredientService(db).BulkImport(context.Background(), ingredients)
	if err != nil {
		log.Fatalf("Failed to import ingredients: %v", err)
	}
	log.Printf("Imported %d ingredients from %s", count, *path)
}
