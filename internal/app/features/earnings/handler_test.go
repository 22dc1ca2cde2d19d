package earnings_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/guildhub/internal/app/features/earnings"
	earningstore "github.com/dalemusser/guildhub/internal/app/store/earnings"
	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	sysauth "github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"go.uber.org/zap"
)

const testGuildID = "700000000000000001"

func newTestHandler(t *testing.T) (*earnings.Handler, *earningstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	store := earningstore.New(db)
	guard := authz.NewGuard(userstore.New(db), logger)
	return earnings.NewHandler(store, guard, logger), store, testutil.NewFixtures(t, db)
}

func entryRequest(t *testing.T, method, target string, body any, claims *sysauth.Claims, entryID string) *http.Request {
	t.Helper()
	req := testutil.NewAuthenticatedRequest(t, method, target, body, claims)
	return testutil.WithChiURLParam(req, "entryID", entryID)
}

func TestServeList(t *testing.T) {
	handler, _, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateEarning(ctx, testGuildID, "list-1")
	fixtures.CreateEarning(ctx, testGuildID, "list-2")

	req := testutil.NewAuthenticatedRequest(t, http.MethodGet, "/api/earnings/"+testGuildID, nil, nil)
	req = testutil.WithChiURLParam(req, "guildID", testGuildID)
	rec := httptest.NewRecorder()
	handler.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var list []models.Earning
	testutil.DecodeJSON(t, rec, &list)
	if len(list) != 2 {
		t.Errorf("expected 2 earnings, got %d", len(list))
	}
}

func TestServeList_EmptyGuild(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest(t, http.MethodGet, "/api/earnings/"+testGuildID, nil, nil)
	req = testutil.WithChiURLParam(req, "guildID", testGuildID)
	rec := httptest.NewRecorder()
	handler.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}

func TestHandleCreate(t *testing.T) {
	handler, store, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Legacy client shapes: string amounts, bare-string models, DD/MM/YYYY.
	payload := map[string]any{
		"id":            "create-1",
		"date":          "15/01/2026",
		"user_mention":  "<@123456789012345678>",
		"gross_revenue": "250.50",
		"total_cut":     100,
		"period":        "Week2",
		"models":        "Solo",
	}

	req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/api/earnings/"+testGuildID, payload, nil)
	req = testutil.WithChiURLParam(req, "guildID", testGuildID)
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, err := store.GetByEntryID(ctx, "create-1")
	if err != nil {
		t.Fatalf("GetByEntryID failed: %v", err)
	}
	if stored.GuildID != testGuildID {
		t.Errorf("GuildID: got %q, want %q", stored.GuildID, testGuildID)
	}
	if stored.Date != "2026-01-15" {
		t.Errorf("Date: got %q, want 2026-01-15", stored.Date)
	}
	if stored.GrossRevenue != 250.50 {
		t.Errorf("GrossRevenue: got %v, want 250.50", stored.GrossRevenue)
	}
	if len(stored.Models) != 1 || stored.Models[0] != "Solo" {
		t.Errorf("Models: got %v", stored.Models)
	}
}

func TestHandleCreate_NonNumericAmount(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	payload := map[string]any{
		"id":            "create-bad",
		"user_mention":  "<@123456789012345678>",
		"gross_revenue": "a lot",
	}

	req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/api/earnings/"+testGuildID, payload, nil)
	req = testutil.WithChiURLParam(req, "guildID", testGuildID)
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleCreate_DuplicateID(t *testing.T) {
	handler, _, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateEarning(ctx, testGuildID, "dup-entry")

	payload := map[string]any{
		"id":           "dup-entry",
		"user_mention": "<@123456789012345678>",
	}

	req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/api/earnings/"+testGuildID, payload, nil)
	req = testutil.WithChiURLParam(req, "guildID", testGuildID)
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate id, got %d", rec.Code)
	}
}

func TestHandleUpdate(t *testing.T) {
	handler, store, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "admin@example.com")
	orig := fixtures.CreateEarning(ctx, testGuildID, "upd-entry")

	// Identity fields in the payload are ignored; amounts coerce.
	payload := map[string]any{
		"id":            "hijacked-id",
		"guild_id":      "999999999999999999",
		"gross_revenue": "500",
	}

	req := entryRequest(t, http.MethodPut, "/api/earnings/entry/upd-entry", payload, testutil.ClaimsFor(admin), "upd-entry")
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, err := store.GetByEntryID(ctx, "upd-entry")
	if err != nil {
		t.Fatalf("GetByEntryID failed: %v", err)
	}
	if stored.GrossRevenue != 500 {
		t.Errorf("GrossRevenue: got %v, want 500", stored.GrossRevenue)
	}
	if stored.GuildID != orig.GuildID || stored.EntryID != orig.EntryID {
		t.Error("identity fields must not change through an update payload")
	}
	// Untouched fields survive a partial update.
	if stored.TotalCut != orig.TotalCut {
		t.Errorf("TotalCut: got %v, want %v", stored.TotalCut, orig.TotalCut)
	}
}

func TestHandleUpdate_ManagerScope(t *testing.T) {
	handler, _, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mgr := fixtures.CreateManager(ctx, "mgr@example.com", "700000000000000002")
	fixtures.CreateEarning(ctx, testGuildID, "scoped-entry")

	// The entry belongs to a guild outside the manager's set.
	payload := map[string]any{"period": "Week9"}
	req := entryRequest(t, http.MethodPut, "/api/earnings/entry/scoped-entry", payload, testutil.ClaimsFor(mgr), "scoped-entry")
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleUpdate_UnknownEntryBeatsScope(t *testing.T) {
	handler, _, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A manager with no guild access still learns whether an id exists:
	// unknown ids are 404, foreign entries 403. Entry ids are globally
	// unique and collisions already surface on create, so this leaks
	// nothing that is not observable anyway.
	mgr := fixtures.CreateManager(ctx, "mgr@example.com", "700000000000000002")
	fixtures.CreateEarning(ctx, testGuildID, "taken-entry")

	payload := map[string]any{"period": "Week9"}

	req := entryRequest(t, http.MethodPut, "/api/earnings/entry/ghost-entry", payload, testutil.ClaimsFor(mgr), "ghost-entry")
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d: %s", rec.Code, rec.Body.String())
	}

	req = entryRequest(t, http.MethodPut, "/api/earnings/entry/taken-entry", payload, testutil.ClaimsFor(mgr), "taken-entry")
	rec = httptest.NewRecorder()
	handler.HandleUpdate(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign entry: expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleUpdate_NotFound(t *testing.T) {
	handler, _, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "admin@example.com")

	payload := map[string]any{"period": "Week1"}
	req := entryRequest(t, http.MethodPut, "/api/earnings/entry/ghost", payload, testutil.ClaimsFor(admin), "ghost")
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleUpdate_NoClaims(t *testing.T) {
	handler, _, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateEarning(ctx, testGuildID, "anon-entry")

	req := entryRequest(t, http.MethodPut, "/api/earnings/entry/anon-entry", map[string]any{}, nil, "anon-entry")
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestHandleDelete(t *testing.T) {
	handler, store, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mgr := fixtures.CreateManager(ctx, "mgr@example.com", testGuildID)
	fixtures.CreateEarning(ctx, testGuildID, "del-entry")

	req := entryRequest(t, http.MethodDelete, "/api/earnings/entry/del-entry", nil, testutil.ClaimsFor(mgr), "del-entry")
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := store.GetByEntryID(ctx, "del-entry"); err == nil {
		t.Error("expected entry to be gone")
	}
}

func TestHandleDelete_NotFound(t *testing.T) {
	handler, _, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "admin@example.com")

	req := entryRequest(t, http.MethodDelete, "/api/earnings/entry/ghost", nil, testutil.ClaimsFor(admin), "ghost")
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
