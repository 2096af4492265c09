package database

import (
	"fmt"

	"github.com/alcostack/backend/internal/config"
	"github.com/alcostack/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := SeedCatalog(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Alcohol{},
		&models.Party{},
		&models.UserAlcohol{},
		&models.UserParty{},
		&models.PartyAlcohol{},
		&models.AuditLog{},
	)
}

// SeedCatalog inserts the default alcohol catalog when the table is empty.
// Catalog changes after users exist do not backfill user associations.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Alcohol{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	catalog := []models.Alcohol{
		{Name: "Vodka", Category: models.CategoryLiquor},
		{Name: "Whiskey", Category: models.CategoryLiquor},
		{Name: "Rum", Category: models.CategoryLiquor},
		{Name: "Gin", Category: models.CategoryLiquor},
		{Name: "Tequila", Category: models.CategoryLiquor},
		{Name: "Beer", Category: models.CategoryLowAlcohol},
		{Name: "Cider", Category: models.CategoryLowAlcohol},
		{Name: "Wine", Category: models.CategoryMidAlcohol},
		{Name: "Vermouth", Category: models.CategoryMidAlcohol},
		{Name: "Port", Category: models.CategoryHighAlcohol},
		{Name: "Absinthe", Category: models.CategoryHighAlcohol},
	}

	return db.Create(&catalog).Error
}
