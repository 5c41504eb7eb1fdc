package config

import (
	"fmt"
	"log"
	"time"

	"ufmarketplace_go/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseConfig holds the database connection settings.
type DatabaseConfig struct {
	Driver   string // "mysql" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Charset  string
	FilePath string // sqlite only
}

// GetDatabaseConfig reads the database configuration from the environment.
func GetDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Driver:   GetEnv("DB_DRIVER", "sqlite"),
		Host:     GetEnv("DB_HOST", "localhost"),
		Port:     GetEnv("DB_PORT", "3306"),
		User:     GetEnv("DB_USER", "root"),
		Password: GetEnv("DB_PASSWORD", ""),
		DBName:   GetEnv("DB_NAME", "ufmarketplace"),
		Charset:  GetEnv("DB_CHARSET", "utf8mb4"),
		FilePath: GetEnv("DB_FILE", "marketplace.db"),
	}
}

// InitDatabase opens the database connection, runs migrations and seeds
// reference data. The returned handle is shared by reference for the process
// lifetime; there is no global.
func InitDatabase() (*gorm.DB, error) {
	cfg := GetDatabaseConfig()

	logLevel := logger.Silent
	if GetEnv("GIN_MODE", "release") == "debug" {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
		// Dialect errors surface as gorm.ErrDuplicatedKey and friends, so
		// services can map unique-index conflicts without driver sniffing.
		TranslateError: true,
	}

	var db *gorm.DB
	var err error

	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.Charset)
		db, err = gorm.Open(mysql.Open(dsn), gormConfig)
	default:
		db, err = gorm.Open(sqlite.Open(cfg.FilePath), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := MigrateAndSeed(db); err != nil {
		return nil, err
	}

	log.Println("✅ Database connected successfully")
	return db, nil
}

// MigrateAndSeed runs the auto migrations and seeds the category table.
func MigrateAndSeed(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Listing{},
		&models.ListingImage{},
		&models.Chat{},
		&models.Message{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return seedCategories(db)
}

// seedCategories inserts the fixed category list. Categories are never
// deleted, so FirstOrCreate keeps restarts idempotent.
func seedCategories(db *gorm.DB) error {
	categories := []models.Category{
		{Name: "Textbooks", Description: "Academic textbooks and study materials", Icon: "book"},
		{Name: "Electronics", Description: "Phones, laptops, tablets, and accessories", Icon: "devices"},
		{Name: "Furniture", Description: "Dorm and apartment furniture", Icon: "chair"},
		{Name: "Clothing", Description: "Clothes, shoes, and accessories", Icon: "checkroom"},
		{Name: "Sports", Description: "Sports equipment and gear", Icon: "sports_soccer"},
		{Name: "Tickets", Description: "Event and game tickets", Icon: "confirmation_number"},
		{Name: "Transportation", Description: "Bikes, scooters, and car accessories", Icon: "directions_bike"},
		{Name: "Services", Description: "Tutoring, moving help, etc.", Icon: "handyman"},
		{Name: "Housing", Description: "Sublease and roommate listings", Icon: "home"},
		{Name: "Other", Description: "Everything else", Icon: "category"},
	}

	for _, category := range categories {
		if err := db.FirstOrCreate(&category, models.Category{Name: category.Name}).Error; err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
	}
	return nil
}

// CloseDatabase closes the underlying connection pool.
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
