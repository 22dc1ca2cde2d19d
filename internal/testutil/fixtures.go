package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role and managed guilds.
// The password is bcrypt-hashed at a low cost to keep tests fast.
func (f *Fixtures) CreateUser(ctx context.Context, email, password, role string, managedGuildIDs ...string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	if managedGuildIDs == nil {
		managedGuildIDs = []string{}
	}

	now := time.Now().UTC()
	user := models.User{
		ID:              primitive.NewObjectID(),
		Email:           email,
		PasswordHash:    string(hash),
		Role:            role,
		ManagedGuildIDs: managedGuildIDs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, email, "password123", models.RoleAdmin)
}

// CreateManager creates a test manager assigned to the given guilds.
func (f *Fixtures) CreateManager(ctx context.Context, email string, guildIDs ...string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, email, "password123", models.RoleManager, guildIDs...)
}

// CreateGuildConfig creates a minimal config document for a guild.
func (f *Fixtures) CreateGuildConfig(ctx context.Context, guildID string, periods ...string) models.GuildConfig {
	f.t.Helper()

	if periods == nil {
		periods = []string{}
	}
	now := time.Now().UTC()
	cfg := models.GuildConfig{
		ID:         primitive.NewObjectID(),
		GuildID:    guildID,
		Models:     []string{},
		Shifts:     []string{},
		Periods:    periods,
		BonusRules: []models.BonusRule{},
		Roles:      map[string]float64{},
		CommissionSettings: models.CommissionSettings{
			Roles: map[string]models.RoleCommission{},
			Users: map[string]models.UserCommission{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("guild_configs").InsertOne(ctx, cfg); err != nil {
		f.t.Fatalf("failed to create test guild config: %v", err)
	}
	return cfg
}

// CreateEarning creates an earning entry for a guild.
func (f *Fixtures) CreateEarning(ctx context.Context, guildID, entryID string) models.Earning {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Earning{
		ID:           primitive.NewObjectID(),
		EntryID:      entryID,
		GuildID:      guildID,
		Date:         "2026-01-15",
		UserMention:  "<@123456789012345678>",
		GrossRevenue: 100,
		TotalCut:     40,
		Period:       "Week1",
		Shift:        "Night",
		Role:         "chatter",
		Models:       []string{"ModelA"},
		HoursWorked:  8,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("earnings").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test earning: %v", err)
	}
	return e
}
