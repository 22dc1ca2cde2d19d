package bootstrap

import (
	"testing"

	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureBootstrapAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{GuildHubMongoDatabase: db}

	err := ensureBootstrapAdmin(ctx, deps, "admin@test.com", "bootstrap-pass", testLogger())
	if err != nil {
		t.Fatalf("ensureBootstrapAdmin failed: %v", err)
	}

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"email": "admin@test.com"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}

	if user.Role != models.RoleAdmin {
		t.Errorf("expected role 'admin', got %q", user.Role)
	}
	if !userstore.VerifyPassword(&user, "bootstrap-pass") {
		t.Error("expected the configured password to verify")
	}
}

func TestEnsureBootstrapAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	existing := fixtures.CreateManager(ctx, "existing@test.com", "100000000000000001")

	deps := DBDeps{GuildHubMongoDatabase: db}

	err := ensureBootstrapAdmin(ctx, deps, "existing@test.com", "ignored-pass", testLogger())
	if err != nil {
		t.Fatalf("ensureBootstrapAdmin failed: %v", err)
	}

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}

	if user.Role != models.RoleAdmin {
		t.Errorf("expected role 'admin', got %q", user.Role)
	}
	if len(user.ManagedGuildIDs) != 0 {
		t.Errorf("expected managed set cleared on promotion, got %v", user.ManagedGuildIDs)
	}
	// Promotion keeps the existing credential.
	if !userstore.VerifyPassword(&user, "password123") {
		t.Error("expected original password to survive promotion")
	}
}

func TestEnsureBootstrapAdmin_AlreadyAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	existing := fixtures.CreateAdmin(ctx, "admin@test.com")

	deps := DBDeps{GuildHubMongoDatabase: db}

	// Idempotent: a second run changes nothing.
	err := ensureBootstrapAdmin(ctx, deps, "admin@test.com", "other-pass", testLogger())
	if err != nil {
		t.Fatalf("ensureBootstrapAdmin failed: %v", err)
	}

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("expected role 'admin', got %q", user.Role)
	}
	if !userstore.VerifyPassword(&user, "password123") {
		t.Error("expected original password untouched")
	}
}
