// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	"github.com/dalemusser/guildhub/internal/app/system/normalize"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		if err := ensureBootstrapAdmin(ctx, deps, appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureBootstrapAdmin guarantees the configured account exists and holds
// the admin role. An existing account is promoted (keeping its password);
// a missing one is created with the configured password. Idempotent.
func ensureBootstrapAdmin(ctx context.Context, deps DBDeps, email, password string, logger *zap.Logger) error {
	db := deps.GuildHubMongoDatabase
	store := userstore.New(db)

	existing, err := store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			return nil
		}
		_, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": existing.ID},
			bson.M{"$set": bson.M{"role": models.RoleAdmin, "managed_guild_ids": []string{}}},
		)
		if err != nil {
			return err
		}
		logger.Info("promoted bootstrap admin", zap.String("email", normalize.Email(email)))
		return nil

	case err == mongo.ErrNoDocuments:
		if _, err := store.Create(ctx, email, password, models.RoleAdmin); err != nil {
			return err
		}
		logger.Info("created bootstrap admin", zap.String("email", normalize.Email(email)))
		return nil

	default:
		return err
	}
}
