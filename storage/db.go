package storage

import (
	"backend/models"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var db *sql.DB

func InitDB() *sql.DB {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		user, password, dbname, host, port)

	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Set connection pool settings optimized for light server load
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	return db
}

func GetDB() *sql.DB {
	return db
}

// EnsureStructureLogTable creates the structure_log table if it is missing.
// Every error record of a build run is appended here for post-hoc
// diagnosis.
func EnsureStructureLogTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS structure_log (
			id SERIAL PRIMARY KEY,
			run_code VARCHAR(32) NOT NULL,
			project_id INTEGER NOT NULL,
			context TEXT NOT NULL,
			message TEXT NOT NULL,
			logged_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure structure_log table: %v", err)
	}
	return nil
}

// LogStructureEvent appends one error record of a build run.
func LogStructureEvent(db *sql.DB, runCode string, projectID int, context, message string) error {
	query := `INSERT INTO structure_log (run_code, project_id, context, message) VALUES ($1, $2, $3, $4)`
	_, err := db.Exec(query, runCode, projectID, context, message)
	if err != nil {
		return fmt.Errorf("failed to insert structure log entry: %v", err)
	}
	return nil
}

// GetStructureLog returns the logged error records of one run, oldest
// first.
func GetStructureLog(db *sql.DB, runCode string) ([]models.ErrorRecord, error) {
	rows, err := db.Query(`SELECT context, message FROM structure_log WHERE run_code = $1 ORDER BY id ASC`, runCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query structure log: %v", err)
	}
	defer rows.Close()

	var records []models.ErrorRecord
	for rows.Next() {
		var record models.ErrorRecord
		if err := rows.Scan(&record.Context, &record.Message); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// CleanupStructureLog deletes log entries older than the threshold.
func CleanupStructureLog(db *sql.DB, threshold time.Time) error {
	_, err := db.Exec(`DELETE FROM structure_log WHERE logged_at < $1`, threshold)
	return err
}
