// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, CORS, body limits); AppConfig is everything specific to
// GuildHub. The struct is passed to most lifecycle hooks, so anything
// needed during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session token configuration
	TokenSecret string        // HMAC signing key (must be strong in production)
	TokenTTL    time.Duration // Token lifetime; there is no revocation before expiry
	TokenIssuer string        // "iss" claim on issued tokens

	// Discord integration for the read-only guild metadata endpoints.
	// Blank disables those endpoints (they answer 503).
	DiscordBotToken string

	// Bootstrap admin: created (or promoted) at startup when set, so a
	// fresh deployment has at least one admin account.
	AdminEmail    string
	AdminPassword string
}
