// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/bwmarrin/discordgo"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	GuildHubMongoClient   *mongo.Client
	GuildHubMongoDatabase *mongo.Database

	// Discord is the REST client for guild metadata lookups. Nil when no
	// bot token is configured; the metadata endpoints then answer 503.
	Discord *discordgo.Session
}
