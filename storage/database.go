package storage

import (
	"log"
	"os"

	"brainhr-server/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	var db *gorm.DB
	var dbError error

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn != "" {
		db, dbError = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		// Local runs fall back to a SQLite file next to the binary.
		path := os.Getenv("DB_FILE")
		if path == "" {
			path = "brainhr.db"
		}
		log.Println("DB_CONNECTION_STRING not set, using SQLite file:", path)
		db, dbError = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if dbError != nil {
		log.Panic("error connecting to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.Employee{},
		&models.Manager{},
		&models.Message{},
		&models.Job{},
		&models.Application{},
		&models.Course{},
		&models.CourseEnrollment{},
		&models.Timesheet{},
		&models.VisaDoc{},
		&models.Activity{},
		&models.Notification{},
		&models.AuditLog{},
	)
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}
