package storage

import (
	"backend/models"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var gormDB *gorm.DB

// InitGormDB initializes GORM database connection
func InitGormDB() *gorm.DB {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=America/Santiago",
		host, user, password, dbname, port)

	var err error
	gormDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database with GORM:", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB:", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := gormDB.AutoMigrate(&models.BuildRun{}); err != nil {
		log.Fatal("Failed to migrate build_runs:", err)
	}

	return gormDB
}

// GetGormDB returns the GORM database instance
func GetGormDB() *gorm.DB {
	return gormDB
}

// SaveBuildRun persists one finished (or aborted) build run.
func SaveBuildRun(db *gorm.DB, run *models.BuildRun) error {
	if err := db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to save build run %s: %v", run.RunCode, err)
	}
	return nil
}

// GetBuildRunByCode fetches a single run by its code.
func GetBuildRunByCode(db *gorm.DB, runCode string) (*models.BuildRun, error) {
	var run models.BuildRun
	if err := db.Where("run_code = ?", runCode).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// ListBuildRuns returns a project's runs, newest first.
func ListBuildRuns(db *gorm.DB, projectID, limit int) ([]models.BuildRun, error) {
	var runs []models.BuildRun
	query := db.Where("project_id = ?", projectID).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list build runs: %v", err)
	}
	return runs, nil
}

// DeleteBuildRunsBefore removes runs older than the threshold; the cleanup
// cron calls this daily.
func DeleteBuildRunsBefore(db *gorm.DB, threshold time.Time) (int64, error) {
	result := db.Where("started_at < ?", threshold).Delete(&models.BuildRun{})
	return result.RowsAffected, result.Error
}
