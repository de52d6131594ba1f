package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx, so repositories can run
// inside a caller's transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPostgresPool connects to dsn and verifies the connection.
func NewPostgresPool(ctx context.Context, dsn string, log *logrus.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("jobly/postgres: parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("jobly/postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("jobly/postgres: ping: %w", err)
	}

	log.WithFields(logrus.Fields{
		"host":     cfg.ConnConfig.Host,
		"database": cfg.ConnConfig.Database,
	}).Info("connected to postgres")
	return pool, nil
}

// Table definitions used only to create the schema. Queries are written
// by hand in the repositories.
type companyRecord struct {
	Handle       string  `gorm:"primaryKey;size:25"`
	Name         string  `gorm:"not null;uniqueIndex"`
	NumEmployees *int    `gorm:"column:num_employees;check:num_employees >= 0"`
	Description  string  `gorm:"not null"`
	LogoURL      *string `gorm:"column:logo_url"`
}

func (companyRecord) TableName() string { return "companies" }

type jobRecord struct {
	ID            int           `gorm:"primaryKey;autoIncrement"`
	Title         string        `gorm:"not null"`
	Salary        *int          `gorm:"check:salary >= 0"`
	Equity        *float64      `gorm:"type:numeric;check:equity <= 1.0"`
	CompanyHandle string        `gorm:"column:company_handle;size:25;not null;index"`
	Company       companyRecord `gorm:"foreignKey:CompanyHandle;references:Handle;constraint:OnDelete:CASCADE"`
}

func (jobRecord) TableName() string { return "jobs" }

type userRecord struct {
	Username  string `gorm:"primaryKey;size:25"`
	Password  string `gorm:"not null"`
	FirstName string `gorm:"column:first_name;not null"`
	LastName  string `gorm:"column:last_name;not null"`
	Email     string `gorm:"not null"`
	IsAdmin   bool   `gorm:"column:is_admin;not null;default:false"`
}

func (userRecord) TableName() string { return "users" }

type applicationRecord struct {
	Username string     `gorm:"primaryKey;size:25"`
	JobID    int        `gorm:"column:job_id;primaryKey;autoIncrement:false"`
	User     userRecord `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE"`
	Job      jobRecord  `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE"`
}

func (applicationRecord) TableName() string { return "applications" }

// Migrate creates or updates the schema. It opens its own short-lived
// connection and closes it before returning.
func Migrate(dsn string, log *logrus.Logger) error {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("jobly/postgres: open for migration: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("jobly/postgres: open for migration: %w", err)
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(&companyRecord{}, &jobRecord{}, &userRecord{}, &applicationRecord{}); err != nil {
		return fmt.Errorf("jobly/postgres: migrate: %w", err)
	}

	log.Info("schema migrated")
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isDuplicateKey checks for a unique_violation (23505).
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// constraintName returns the constraint a Postgres error names, if any.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// isForeignKeyViolation checks for a foreign_key_violation (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
