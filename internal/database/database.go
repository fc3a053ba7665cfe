package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"playgrid/backend/internal/models"
)

// Connect opens the database connection, runs migrations and returns the
// handle. Callers own the handle; there is no package-level connection.
func Connect(dsn string) (*gorm.DB, error) {
	// Configure GORM logger
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,            // Log level
			IgnoreRecordNotFoundError: true,                   // Ignore ErrRecordNotFound error for logger
			Colorful:                  true,                   // Enable color
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: customLogger,
		// Needed so unique-constraint violations surface as
		// gorm.ErrDuplicatedKey (room code collision retries rely on it).
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established.")

	// Run migrations
	err = db.AutoMigrate(&models.User{}, &models.Room{}, &models.RoomPlayer{}, &models.Board{}, &models.Move{})
	if err != nil {
		return nil, err
	}

	log.Println("Database migrated successfully.")
	return db, nil
}
