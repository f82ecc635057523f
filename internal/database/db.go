// Package database opens the MySQL connection shared by the
// repositories.  The DSN pins parseTime and loc=UTC because every
// repository stores DATETIME values in UTC and the API converts them to
// epoch milliseconds at the handler boundary; a session in any other
// location would silently shift event windows and cooldown timestamps.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver registration

	"github.com/crowdpulse/event-engagement/internal/config"
)

// DSN builds the driver connection string from the loaded configuration.
// Split out so tests can assert the UTC options without dialing anything.
func DSN(cfg config.Config) string {
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// Open connects to MySQL, applies the configured pool limits and
// verifies the connection with a bounded ping.
func Open(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DBMaxOpen)
	db.SetMaxIdleConns(cfg.DBMaxIdle)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnLifeMin) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
