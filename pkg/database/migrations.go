package database

import (
	"context"
	"fmt"
	"time"

	"campuspool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Migration provisions one collection and its indexes. Down drops the
// collection, so it is only safe on empty environments.
type Migration struct {
	Version     int
	Description string
	Collection  string
	Indexes     []mongo.IndexModel
}

// Migrator applies pending migrations in version order. The current version
// lives in a single document in the migrations collection.
type Migrator struct {
	db         *mongo.Database
	migrations []Migration
	logger     *logger.Logger
}

func NewMigrator(db *mongo.Database, log *logger.Logger) *Migrator {
	return &Migrator{db: db, migrations: migrations, logger: log}
}

func (m *Migrator) Up() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	current, err := m.currentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= current {
			continue
		}

		m.logger.WithField("version", migration.Version).Infof("applying migration: %s", migration.Description)

		if len(migration.Indexes) > 0 {
			if _, err := m.db.Collection(migration.Collection).Indexes().CreateMany(ctx, migration.Indexes); err != nil {
				return fmt.Errorf("migration %d: %w", migration.Version, err)
			}
		}
		if err := m.setVersion(ctx, migration.Version); err != nil {
			return fmt.Errorf("migration %d: recording version: %w", migration.Version, err)
		}
	}
	return nil
}

func (m *Migrator) Down(targetVersion int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	current, err := m.currentVersion(ctx)
	if err != nil {
		return err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if migration.Version > current || migration.Version <= targetVersion {
			continue
		}

		m.logger.WithField("version", migration.Version).Infof("reverting migration: %s", migration.Description)

		if err := m.db.Collection(migration.Collection).Drop(ctx); err != nil {
			return fmt.Errorf("migration %d: %w", migration.Version, err)
		}

		previous := targetVersion
		if i > 0 {
			previous = m.migrations[i-1].Version
		}
		if err := m.setVersion(ctx, previous); err != nil {
			return fmt.Errorf("migration %d: recording version: %w", migration.Version, err)
		}
	}
	return nil
}

func (m *Migrator) currentVersion(ctx context.Context) (int, error) {
	var state struct {
		Version int `bson:"version"`
	}
	err := m.db.Collection("migrations").FindOne(ctx, bson.D{}).Decode(&state)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return state.Version, nil
}

func (m *Migrator) setVersion(ctx context.Context, version int) error {
	_, err := m.db.Collection("migrations").ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)
	return err
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "users collection indexes",
		Collection:  "users",
		Indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "university", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	},
	{
		Version:     2,
		Description: "rides collection indexes",
		Collection:  "rides",
		Indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
			{Keys: bson.D{{Key: "passenger_ids", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "departure_time", Value: 1}}},
			{Keys: bson.D{{Key: "origin.city", Value: 1}, {Key: "destination.city", Value: 1}}},
			{Keys: bson.D{{Key: "departure_time", Value: 1}}},
		},
	},
	{
		Version:     3,
		Description: "ride_requests collection indexes",
		Collection:  "ride_requests",
		Indexes: []mongo.IndexModel{
			{
				// One live request per user and ride.
				Keys: bson.D{{Key: "ride_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.D{{Key: "status", Value: "pending"}}),
			},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "ride_id", Value: 1}, {Key: "status", Value: 1}}},
		},
	},
	{
		Version:     4,
		Description: "messages collection indexes",
		Collection:  "messages",
		Indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "ride_id", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "is_read", Value: 1}}},
			{Keys: bson.D{{Key: "sender_id", Value: 1}}},
		},
	},
	{
		Version:     5,
		Description: "ratings collection indexes",
		Collection:  "ratings",
		Indexes: []mongo.IndexModel{
			{
				// One rating per rater, target, ride and direction.
				Keys:    bson.D{{Key: "rater_id", Value: 1}, {Key: "rated_id", Value: 1}, {Key: "ride_id", Value: 1}, {Key: "type", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "rated_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "ride_id", Value: 1}}},
		},
	},
	{
		Version:     6,
		Description: "notifications collection indexes",
		Collection:  "notifications",
		Indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_read", Value: 1}}},
		},
	},
}
