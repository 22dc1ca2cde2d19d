// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureGuildConfigs(ctx, db); err != nil {
		problems = append(problems, "guild_configs: "+err.Error())
	}
	if err := ensureEarnings(ctx, db); err != nil {
		problems = append(problems, "earnings: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("by_role"),
		},
	})
}

func ensureGuildConfigs(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("guild_configs"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "guild_id", Value: 1}},
			Options: options.Index().SetName("uniq_guild_id").SetUnique(true),
		},
	})
}

func ensureEarnings(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("earnings"), []mongo.IndexModel{
		{
			// Entry ids are caller-assigned and globally unique; update and
			// delete address entries by id without a guild parameter.
			Keys:    bson.D{{Key: "entry_id", Value: 1}},
			Options: options.Index().SetName("uniq_entry_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("by_guild_created"),
		},
	})
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				// An equivalent index already exists under another name.
				continue
			}
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}
