package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/darkandwhite/shop-backend/pkg/config"
	"github.com/darkandwhite/shop-backend/pkg/db"
	"github.com/darkandwhite/shop-backend/pkg/db/models"
	"github.com/darkandwhite/shop-backend/pkg/env"
	"github.com/darkandwhite/shop-backend/pkg/logger"
)

var productLines = []string{
	"Hoodie", "Tee", "Cap", "Poster", "Tote",
}

var designNames = []string{
	"Monochrome Skyline", "Negative Space", "Ink Contrast", "Grid Study",
}

// Seeds demo catalog rows so a checkout can be exercised locally.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to seed a production database", nil)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	perLine := env.GetInt("SHOP_SEED_PER_LINE", 4)

	var existing int64
	if err := dbClient.DB().WithContext(ctx).Model(&models.Product{}).Count(&existing).Error; err != nil {
		logg.Error(ctx, "failed to count products", err)
		os.Exit(1)
	}
	if existing > 0 {
		ctx = logg.WithField(ctx, "existing", existing)
		logg.Info(ctx, "products already present, skipping seed")
		return
	}

	products := make([]models.Product, 0, len(productLines)*perLine)
	for _, line := range productLines {
		for i := 1; i <= perLine; i++ {
			name := fmt.Sprintf("%s %d", line, i)
			products = append(products, models.Product{
				Name:     name,
				Slug:     slugify(name),
				Price:    randomPrice(),
				IsActive: true,
			})
		}
	}
	if err := dbClient.DB().WithContext(ctx).Create(&products).Error; err != nil {
		logg.Error(ctx, "failed to seed products", err)
		os.Exit(1)
	}

	designs := make([]models.DesignAsset, 0, len(designNames))
	for _, name := range designNames {
		designs = append(designs, models.DesignAsset{
			Name:     name,
			Price:    randomPrice(),
			IsActive: true,
		})
	}
	if err := dbClient.DB().WithContext(ctx).Create(&designs).Error; err != nil {
		logg.Error(ctx, "failed to seed design assets", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"products": len(products),
		"designs":  len(designs),
	})
	logg.Info(ctx, "seed completed")
}

func randomPrice() decimal.Decimal {
	major := rand.Intn(1450) + 50
	minor := rand.Intn(100)
	return decimal.NewFromInt(int64(major)).Add(decimal.New(int64(minor), -2))
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}
