package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"libris-backend/internal/platform/config"
)

const driverName = "mysql"

//go:embed schema.sql
var schemaSQL string

func DSN(c config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC",
		c.Username, c.Password, c.Host, c.Port, c.DBName)
}

func Connect(ctx context.Context, c config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, DSN(c))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	db.SetMaxOpenConns(40)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// Statements splits the embedded schema into individual statements.
func Statements() []string {
	var out []string
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db DBTX) error {
	for _, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
