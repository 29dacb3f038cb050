package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"trivia-backend/internal/config"
	"trivia-backend/internal/models"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteDriverName is go-sqlite3 with casefold(text) registered on every
// connection. sqlite's own LOWER and LIKE only fold ASCII.
const SQLiteDriverName = "sqlite3_trivia"

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", strings.ToLower, true)
		},
	})
}

// Open opens the store selected by cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel(cfg.LogLevel))}

	switch cfg.DBDriver {
	case "postgres", "":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
		)
		return gorm.Open(postgres.Open(dsn), gormCfg)
	case "sqlite":
		db, err := gorm.Open(sqlite.New(sqlite.Config{
			DriverName: SQLiteDriverName,
			DSN:        cfg.DBPath,
		}), gormCfg)
		if err != nil {
			return nil, err
		}
		// every pooled connection to ":memory:" would see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func Connect(cfg *config.Config) *gorm.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Printf("database connected (%s)", cfg.DBDriver)
	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Question{},
	)
}

func AutoMigrate(db *gorm.DB) {
	if err := Migrate(db); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	log.Println("database migrated")
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
