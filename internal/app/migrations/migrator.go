package migrations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const migrationsCollection = "schema_migrations"

// Index names referenced by the repositories
const (
	UserEmailIndex      = "email_unique"
	UserProviderIDIndex = "providerId_sparse"
	CourseCreatedAtIdx  = "createdAt_desc"
)

// Migration is a versioned change applied once to the database
type Migration struct {
	Version     string
	Description string
	Up          func(ctx context.Context, db *mongo.Database) error
}

// Migrator manages database migrations
type Migrator struct {
	db         *mongo.Database
	migrations []Migration
	logger     zerolog.Logger
}

// NewMigrator creates a new migrator with the application migrations registered
func NewMigrator(db *mongo.Database, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:         db,
		migrations: Default(),
		logger:     logger,
	}
}

// Default returns the application migrations in version order
func Default() []Migration {
	return []Migration{
		{
			Version:     "001",
			Description: "users indexes",
			Up: func(ctx context.Context, db *mongo.Database) error {
				_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
					{
						Keys:    bson.D{{Key: "email", Value: 1}},
						Options: options.Index().SetName(UserEmailIndex).SetUnique(true),
					},
					{
						Keys:    bson.D{{Key: "providerId", Value: 1}},
						Options: options.Index().SetName(UserProviderIDIndex).SetSparse(true),
					},
				})
				return err
			},
		},
		{
			Version:     "002",
			Description: "courses listing index",
			Up: func(ctx context.Context, db *mongo.Database) error {
				_, err := db.Collection("courses").Indexes().CreateOne(ctx, mongo.IndexModel{
					Keys:    bson.D{{Key: "createdAt", Value: -1}},
					Options: options.Index().SetName(CourseCreatedAtIdx),
				})
				return err
			},
		},
	}
}

type migrationRecord struct {
	Version     string    `bson:"_id"`
	Description string    `bson:"description"`
	AppliedAt   time.Time `bson:"appliedAt"`
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	n, err := m.db.Collection(migrationsCollection).CountDocuments(ctx, bson.M{"_id": version})
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return n > 0, nil
}

// recordMigration marks a migration as applied
func (m *Migrator) recordMigration(ctx context.Context, mig Migration) error {
	_, err := m.db.Collection(migrationsCollection).InsertOne(ctx, migrationRecord{
		Version:     mig.Version,
		Description: mig.Description,
		AppliedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// Migrate applies every pending migration in version order
func (m *Migrator) Migrate(ctx context.Context) error {
	pending := make([]Migration, len(m.migrations))
	copy(pending, m.migrations)
	sort.Slice(pending, func(i, j int) bool { return pending[i].Version < pending[j].Version })

	for _, mig := range pending {
		applied, err := m.isMigrationApplied(ctx, mig.Version)
		if err != nil {
			return err
		}
		if applied {
			m.logger.Debug().Str("version", mig.Version).Msg("Migration already applied, skipping")
			continue
		}

		if err := mig.Up(ctx, m.db); err != nil {
			return fmt.Errorf("migration %s (%s) failed: %w", mig.Version, mig.Description, err)
		}
		if err := m.recordMigration(ctx, mig); err != nil {
			return err
		}
		m.logger.Info().Str("version", mig.Version).Str("description", mig.Description).Msg("Migration successfully applied")
	}

	return nil
}
