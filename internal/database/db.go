package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.  Only used when the
// log store runs in its database-backed mode.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings; the write rate here is a handful of rows per minute,
	// a small pool is plenty.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureLogTable creates the meal_log table if it is not there yet.  All
// columns are text so a row round-trips exactly like the CSV file's.
func EnsureLogTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS meal_log (
			id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			timestamp_iso VARCHAR(40)  NOT NULL,
			log_date      VARCHAR(10)  NOT NULL,
			log_time      VARCHAR(8)   NOT NULL,
			full_name     VARCHAR(255) NOT NULL DEFAULT '',
			phone_last4   VARCHAR(8)   NOT NULL DEFAULT '',
			employee_id   VARCHAR(64)  NOT NULL DEFAULT '',
			trainee_id    VARCHAR(64)  NOT NULL DEFAULT '',
			KEY idx_meal_log_date (log_date)
		)`)
	return err
}
