package db

import (
	"log"
	"os"
	"time"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDatabase initializes the SQLite database connection, migrates models
// and seeds the bundled category/entity definitions.
func InitDatabase(dbPath string) {
	var err error

	// Configure GORM logger
	newLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      false,
			Colorful:                  true,
		},
	)

	DB, err = gorm.Open(gormlite.Open(dbPath), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err = Migrate(DB); err != nil {
		log.Fatalf("failed to migrate database schema: %v", err)
	}

	if err = SeedDefinitions(DB); err != nil {
		log.Fatalf("failed to seed base definitions: %v", err)
	}
}

// Migrate creates or updates the catalog schema.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&Category{}, &Entity{}, &Asset{}, &Setting{}, &Preset{}, &PresetAsset{})
}
