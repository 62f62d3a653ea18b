// Package sqlstore implements the repository ports on top of gorm with the
// SQLite driver. It is the single-file alternative to the MongoDB backend.
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultTimeout = 10 * time.Second

// Config holds the SQLite connection settings.
type Config struct {
	DSN string
	// Debug logs every statement.
	Debug bool
}

// Open connects to the database, limits the pool to one writer and migrates
// the schema.
func Open(ctx context.Context, cfg Config) (*gorm.DB, error) {
	level := gormlogger.Silent
	if cfg.Debug {
		level = gormlogger.Info
	}

	db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	// single writer; in-memory databases live as long as this connection
	sqlDB.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table used by the repositories.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel{},
		&visitorModel{},
		&articleModel{},
		&commentModel{},
		&projectModel{},
	); err != nil {
		return fmt.Errorf("sqlite migrate: %w", err)
	}
	return backfillSearchColumns(db)
}

// backfillSearchColumns fills the folded search columns of rows written
// before they existed.
func backfillSearchColumns(db *gorm.DB) error {
	var stale []articleModel
	err := db.Select("id", "title", "description", "content").
		Where("title_fold = '' AND title <> ''").
		Find(&stale).Error
	if err != nil {
		return fmt.Errorf("sqlite backfill: %w", err)
	}
	for _, m := range stale {
		err := db.Model(&articleModel{}).Where("id = ?", m.ID).UpdateColumns(map[string]any{
			"title_fold":       fold(m.Title),
			"description_fold": fold(m.Description),
			"content_fold":     fold(m.Content),
		}).Error
		if err != nil {
			return fmt.Errorf("sqlite backfill %s: %w", m.ID, err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Pinger reports database reachability for the readiness check.
type Pinger struct {
	db *gorm.DB
}

func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
