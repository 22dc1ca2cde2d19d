// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authfeature "github.com/dalemusser/guildhub/internal/app/features/auth"
	configfeature "github.com/dalemusser/guildhub/internal/app/features/config"
	earningsfeature "github.com/dalemusser/guildhub/internal/app/features/earnings"
	guildsfeature "github.com/dalemusser/guildhub/internal/app/features/guilds"
	healthfeature "github.com/dalemusser/guildhub/internal/app/features/health"
	usersfeature "github.com/dalemusser/guildhub/internal/app/features/users"
	earningstore "github.com/dalemusser/guildhub/internal/app/store/earnings"
	configstore "github.com/dalemusser/guildhub/internal/app/store/guildconfigs"
	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Everything under /api except /api/auth requires a bearer token; guild
// scoping and role checks hang off the authz guard, which re-reads a
// manager's assignment from the user directory on every decision so that
// revocations take effect without re-login.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.GuildHubMongoDatabase

	tokens, err := auth.NewManager(appCfg.TokenSecret, appCfg.TokenTTL, appCfg.TokenIssuer, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(db)
	configs := configstore.New(db)
	earnings := earningstore.New(db)
	guard := authz.NewGuard(users, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.GuildHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		// Credential endpoints are the only public API surface.
		authHandler := authfeature.NewHandler(users, tokens, logger)
		api.Mount("/auth", authfeature.Routes(authHandler))

		api.Group(func(protected chi.Router) {
			protected.Use(tokens.RequireSignedIn)

			configHandler := configfeature.NewHandler(configs, logger)
			protected.Mount("/config", configfeature.Routes(configHandler, guard))

			earningsHandler := earningsfeature.NewHandler(earnings, guard, logger)
			protected.Mount("/earnings", earningsfeature.Routes(earningsHandler, guard))

			usersHandler := usersfeature.NewHandler(users, guard, logger)
			protected.Mount("/users", usersfeature.Routes(usersHandler))

			var discord guildsfeature.DiscordAPI
			if deps.Discord != nil {
				discord = deps.Discord
			}
			guildsHandler := guildsfeature.NewHandler(discord, logger)
			protected.Mount("/guilds", guildsfeature.Routes(guildsHandler, guard))
		})
	})

	return r, nil
}
