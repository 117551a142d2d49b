package bootstrap

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// EnsureIndexes creates the collection indexes the repositories rely on.
func EnsureIndexes(lc fx.Lifecycle, db *mongo.Database, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureIndexes(ctx, db, logger)
		},
	})
}

func ensureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("bootstrap users indexes: %w", err)
	}

	notes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := db.Collection("notes").Indexes().CreateMany(ctx, notes); err != nil {
		return fmt.Errorf("bootstrap notes indexes: %w", err)
	}

	diaries := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("diaries").Indexes().CreateMany(ctx, diaries); err != nil {
		return fmt.Errorf("bootstrap diaries indexes: %w", err)
	}

	if logger != nil {
		logger.Info("bootstrap indexes ensured",
			zap.Strings("collections", []string{"users", "notes", "diaries"}),
		)
	}
	return nil
}
