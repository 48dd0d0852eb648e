package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	auditdomain "github.com/Achorval/Voouch-Api-sub001/internal/audit/domain"
	catalogdomain "github.com/Achorval/Voouch-Api-sub001/internal/catalog/domain"
	feeconfigdomain "github.com/Achorval/Voouch-Api-sub001/internal/feeconfig/domain"
	ticketdomain "github.com/Achorval/Voouch-Api-sub001/internal/ticket/domain"
	tierlimitdomain "github.com/Achorval/Voouch-Api-sub001/internal/tierlimit/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&catalogdomain.Category{},
		&catalogdomain.Product{},
		&catalogdomain.Provider{},
		&tierlimitdomain.TierLimit{},
		&feeconfigdomain.FeeConfiguration{},
		&ticketdomain.Ticket{},
		&auditdomain.AuditLog{},
	}
}

// Migrate applies the embedded SQL migrations on postgres. Other dialects
// are used for local runs and tests and get their schema from the models.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	if conn.Dialector.Name() != "postgres" {
		return conn.AutoMigrate(Models()...)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}

func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}
