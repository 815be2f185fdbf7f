package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/wod-analyzer/backend/config"
)

// DB represents the database connection
type DB struct {
	*gorm.DB
}

// New opens the store selected by cfg.DBDriver
func New(cfg *config.Config) (*DB, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		log.WithField("path", cfg.SQLitePath).Info("Opening SQLite database")
		return OpenSQLite(cfg.SQLitePath)
	case config.DriverPostgres, "":
		// Log connection target (without password)
		log.WithFields(log.Fields{
			"host": cfg.DBHost,
			"port": cfg.DBPort,
			"user": cfg.DBUser,
			"url":  cfg.DatabaseURL != "",
		}).Info("Connecting to database")
		return OpenPostgres(cfg.PostgresDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// OpenPostgres connects to Postgres and verifies the connection
func OpenPostgres(dsn string) (*DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Info("Successfully connected to database")
	return &DB{db}, nil
}

// OpenSQLite opens a SQLite file, or a private in-memory database for ":memory:"
func OpenSQLite(path string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}
	// Every connection to ":memory:" is a separate database
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		sqlDB.SetMaxOpenConns(1)
	}

	return &DB{db}, nil
}

// gormConfig stores timestamps in UTC so day-range queries compare like with like
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Driver returns the dialect name, "postgres" or "sqlite"
func (db *DB) Driver() string {
	return db.Dialector.Name()
}

// HealthCheck checks if the database is accessible
func (db *DB) HealthCheck(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
