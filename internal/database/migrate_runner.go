package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"vendio/internal/middleware"

	"gorm.io/gorm"
)

// SchemaMigration is one row in the ledger of applied migrations.
type SchemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

// ledger tracks which registered migrations have run against this database.
type ledger struct {
	db *gorm.DB
}

func (l *ledger) appliedVersions(ctx context.Context) ([]int, error) {
	var versions []int
	err := l.db.WithContext(ctx).
		Model(&SchemaMigration{}).
		Order("version ASC").
		Pluck("version", &versions).Error
	if err != nil {
		// A fresh database has no ledger table yet.
		if errors.Is(err, gorm.ErrRecordNotFound) || isMissingTableError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading schema_migrations: %w", err)
	}
	return versions, nil
}

func (l *ledger) apply(ctx context.Context, m Migration) error {
	if err := l.db.WithContext(ctx).Exec(m.UpScript).Error; err != nil {
		return fmt.Errorf("migration %06d (%s): %w", m.Version, m.Name, err)
	}
	row := SchemaMigration{Version: m.Version, Name: m.Name}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("recording migration %06d: %w", m.Version, err)
	}
	middleware.Logger.Info("migration applied",
		slog.Int("version", m.Version), slog.String("name", m.Name))
	return nil
}

func (l *ledger) revert(ctx context.Context, m *Migration) error {
	if err := l.db.WithContext(ctx).Exec(m.DownScript).Error; err != nil {
		return fmt.Errorf("rollback of %06d (%s): %w", m.Version, m.Name, err)
	}
	err := l.db.WithContext(ctx).
		Where("version = ?", m.Version).
		Delete(&SchemaMigration{}).Error
	if err != nil {
		return fmt.Errorf("clearing migration record %06d: %w", m.Version, err)
	}
	middleware.Logger.Info("migration rolled back", slog.Int("version", m.Version))
	return nil
}

func isMissingTableError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "no such table")
}

// RunMigrations creates the ledger table if needed and applies every
// registered migration not yet recorded, in version order.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	const ledgerDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`
	if err := db.WithContext(ctx).Exec(ledgerDDL).Error; err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	l := &ledger{db: db}
	applied, err := l.appliedVersions(ctx)
	if err != nil {
		return err
	}
	if err := checkForUnknownVersions(applied); err != nil {
		return err
	}

	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	for _, m := range migrations {
		if done[m.Version] {
			continue
		}
		middleware.Logger.Info("applying migration",
			slog.Int("version", m.Version), slog.String("name", m.Name))
		if err := l.apply(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// checkForUnknownVersions refuses to run against a ledger holding versions
// this binary does not know about, which usually means a newer deploy has
// already touched the database.
func checkForUnknownVersions(applied []int) error {
	known := make(map[int]bool, len(migrations))
	for _, m := range migrations {
		known[m.Version] = true
	}
	var unknown []int
	for _, v := range applied {
		if !known[v] {
			unknown = append(unknown, v)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Ints(unknown)
	labels := make([]string, len(unknown))
	for i, v := range unknown {
		labels[i] = fmt.Sprintf("%06d", v)
	}
	return fmt.Errorf("schema_migrations holds versions unknown to this build: %s",
		strings.Join(labels, ", "))
}

// RollbackMigration reverts one applied migration by version.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}
	if m.DownScript == "" {
		return fmt.Errorf("migration %06d has no down script", version)
	}

	l := &ledger{db: db}
	applied, err := l.appliedVersions(ctx)
	if err != nil {
		return err
	}
	for _, v := range applied {
		if v == version {
			return l.revert(ctx, m)
		}
	}
	return fmt.Errorf("migration %06d has not been applied", version)
}
