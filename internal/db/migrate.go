package db

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muraken91/day-88-cafes-wifi-website/internal/models"
)

// ConnectAndMigrate opens the database named by dsn and applies the schema.
// A postgres:// DSN selects the postgres driver; anything else is treated
// as a sqlite file path (the default store is cafes.db next to the binary).
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("DATABASE_DSN is empty")
	}

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	if isPostgresDSN(dsn) {
		// Retry to give postgres time to come up (compose/dev environments).
		for i := 0; i < 10; i++ {
			conn, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			time.Sleep(2 * time.Second)
		}
	} else {
		conn, err = gorm.Open(sqlite.Open(sqliteDSN(dsn)), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	for _, m := range []interface{}{&models.User{}, &models.Cafe{}, &models.Comment{}} {
		if migErr := conn.AutoMigrate(m); migErr != nil {
			return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
		}
	}

	for _, table := range []string{"users", "cafes", "comments"} {
		if !conn.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	return conn, nil
}

// sqliteDSN turns on foreign-key enforcement, which sqlite leaves off per
// connection unless the DSN asks for it. Postgres enforces declared
// constraints unconditionally.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

func isPostgresDSN(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}
