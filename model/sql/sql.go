package sql

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Brawl345/pixabot/logger"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

var log = logger.New("sql")

//go:embed migrations/*
var embeddedMigrations embed.FS

func ConnectionString() string {
	host := strings.TrimSpace(os.Getenv("MYSQL_HOST"))
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(os.Getenv("MYSQL_PORT"))
	if port == "" {
		port = "3306"
	}
	user := strings.TrimSpace(os.Getenv("MYSQL_USER"))
	password := strings.TrimSpace(os.Getenv("MYSQL_PASSWORD"))
	dbname := strings.TrimSpace(os.Getenv("MYSQL_DB"))
	tls := strings.TrimSpace(os.Getenv("MYSQL_TLS"))
	if tls == "" {
		tls = "false"
	}

	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&tls=%s",
		user,
		password,
		host,
		port,
		dbname,
		tls,
	)
}

func New() (*sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", ConnectionString())
	if err != nil {
		return nil, err
	}

	_, ignoreMigration := os.LookupEnv("IGNORE_SQL_MIGRATION")
	if !ignoreMigration {
		migrationSource := &migrate.EmbedFileSystemMigrationSource{FileSystem: embeddedMigrations, Root: "migrations"}
		n, err := migrate.Exec(db.DB, "mysql", migrationSource, migrate.Up)
		if err != nil {
			return nil, fmt.Errorf("applying migrations: %w", err)
		}
		if n > 0 {
			log.Info().Msgf("Applied %d migration(s)", n)
		}
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}
