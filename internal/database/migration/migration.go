package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"realtors/internal/model"
)

type migrationStep struct {
	Name string
	Run  func(tx *gorm.DB) error
}

// steps are idempotent; they run on every start so that new columns reach
// databases created by older builds.
var steps = []migrationStep{
	{
		Name: "auto_migrate_realtors",
		Run: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&model.Realtor{})
		},
	},
}

// EnsureMigrated brings the realtors schema up to date.
func EnsureMigrated(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	log = log.With().Str("component", "database").Logger()
	start := time.Now()

	tx := db.WithContext(ctx)
	existed := tx.Migrator().HasTable(&model.Realtor{})
	log.Info().
		Str("event", "db_migration_start").
		Bool("table_existed", existed).
		Msg("running schema migration")

	for _, step := range steps {
		stepStart := time.Now()
		if err := step.Run(tx); err != nil {
			log.Error().
				Err(err).
				Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info().
			Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	log.Info().
		Str("event", "db_migration_success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema up to date")
	return nil
}
