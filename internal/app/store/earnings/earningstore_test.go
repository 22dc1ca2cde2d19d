package earningstore_test

import (
	"testing"

	earningstore "github.com/dalemusser/guildhub/internal/app/store/earnings"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const testGuildID = "300000000000000001"

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := earningstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, testGuildID, models.Earning{
		EntryID:      "entry-001",
		Date:         "2026-02-10",
		UserMention:  "<@123456789012345678>",
		GrossRevenue: 250,
		TotalCut:     100,
		Period:       "Week2",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected storage id to be assigned")
	}
	if created.GuildID != testGuildID {
		t.Errorf("GuildID: got %q, want %q", created.GuildID, testGuildID)
	}
	if created.Models == nil {
		t.Error("expected models to default to an empty slice")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_ForcesGuildID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := earningstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, testGuildID, models.Earning{
		EntryID:     "entry-002",
		GuildID:     "999999999999999999",
		UserMention: "<@123456789012345678>",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.GuildID != testGuildID {
		t.Errorf("payload guild_id should be overridden: got %q", created.GuildID)
	}
}

func TestStore_Create_DuplicateEntryID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := earningstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e := models.Earning{EntryID: "entry-dup", UserMention: "<@123456789012345678>"}
	if _, err := store.Create(ctx, testGuildID, e); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Collisions are global: a different guild may not reuse the id.
	_, err := store.Create(ctx, "300000000000000002", e)
	if err != earningstore.ErrDuplicateEntryID {
		t.Errorf("expected ErrDuplicateEntryID, got %v", err)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := earningstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cases := []struct {
		name string
		e    models.Earning
	}{
		{"missing id", models.Earning{UserMention: "<@1>"}},
		{"missing mention", models.Earning{EntryID: "x"}},
		{"bad date", models.Earning{EntryID: "x", UserMention: "<@1>", Date: "15/01/2026"}},
		{"negative gross", models.Earning{EntryID: "x", UserMention: "<@1>", GrossRevenue: -1}},
		{"negative hours", models.Earning{EntryID: "x", UserMention: "<@1>", HoursWorked: -2}},
	}
	for _, tc := range cases {
		if _, err := store.Create(ctx, testGuildID, tc.e); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := earningstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateEarning(ctx, testGuildID, "entry-a")
	fixtures.CreateEarning(ctx, testGuildID, "entry-b")
	fixtures.CreateEarning(ctx, "300000000000000002", "entry-other")

	earnings, err := store.List(ctx, testGuildID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(earnings) != 2 {
		t.Fatalf("expected 2 earnings, got %d", len(earnings))
	}
	for _, e := range earnings {
		if e.GuildID != testGuildID {
			t.Errorf("unexpected guild in list: %q", e.GuildID)
		}
	}
}

func TestStore_List_EmptyGuild(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := earningstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	earnings, err := store.List(ctx, testGuildID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if earnings == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(earnings) != 0 {
		t.Errorf("expected 0 earnings, got %d", len(earnings))
	}
}

func TestStore_UpdateEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := earningstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orig := fixtures.CreateEarning(ctx, testGuildID, "entry-upd")

	gross := 500.0
	period := "Week3"
	updated, err := store.UpdateEntry(ctx, "entry-upd", earningstore.Update{
		GrossRevenue: &gross,
		Period:       &period,
	})
	if err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}

	if updated.GrossRevenue != 500 {
		t.Errorf("GrossRevenue: got %v, want 500", updated.GrossRevenue)
	}
	if updated.Period != "Week3" {
		t.Errorf("Period: got %q, want Week3", updated.Period)
	}
	// Untouched fields survive.
	if updated.TotalCut != orig.TotalCut {
		t.Errorf("TotalCut: got %v, want %v", updated.TotalCut, orig.TotalCut)
	}
	// Identity never changes.
	if updated.EntryID != orig.EntryID || updated.GuildID != orig.GuildID || updated.ID != orig.ID {
		t.Error("expected identity fields to be immutable")
	}
}

func TestStore_UpdateEntry_RejectsBadValues(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := earningstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateEarning(ctx, testGuildID, "entry-bad")

	badDate := "10/02/2026"
	if _, err := store.UpdateEntry(ctx, "entry-bad", earningstore.Update{Date: &badDate}); err == nil {
		t.Error("expected validation error for non-ISO date")
	}

	neg := -10.0
	if _, err := store.UpdateEntry(ctx, "entry-bad", earningstore.Update{TotalCut: &neg}); err == nil {
		t.Error("expected validation error for negative total_cut")
	}
}

func TestStore_UpdateEntry_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := earningstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	period := "Week1"
	_, err := store.UpdateEntry(ctx, "no-such-entry", earningstore.Update{Period: &period})
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_DeleteEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := earningstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateEarning(ctx, testGuildID, "entry-del")

	if err := store.DeleteEntry(ctx, "entry-del"); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if _, err := store.GetByEntryID(ctx, "entry-del"); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments after delete, got %v", err)
	}

	if err := store.DeleteEntry(ctx, "entry-del"); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments deleting twice, got %v", err)
	}
}
