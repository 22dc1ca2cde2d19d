package config_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/guildhub/internal/app/features/config"
	configstore "github.com/dalemusser/guildhub/internal/app/store/guildconfigs"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"go.uber.org/zap"
)

const testGuildID = "600000000000000001"

func newTestHandler(t *testing.T) (*config.Handler, *configstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := configstore.New(db)
	return config.NewHandler(store, zap.NewNop()), store, testutil.NewFixtures(t, db)
}

func guildRequest(t *testing.T, method, target string, body any, guildID string) *http.Request {
	t.Helper()
	req := testutil.NewAuthenticatedRequest(t, method, target, body, nil)
	return testutil.WithChiURLParam(req, "guildID", guildID)
}

func TestServeGet(t *testing.T) {
	handler, _, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGuildConfig(ctx, testGuildID, "Week1", "Week2")

	req := guildRequest(t, http.MethodGet, "/api/config/"+testGuildID, nil, testGuildID)
	rec := httptest.NewRecorder()
	handler.ServeGet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got models.GuildConfig
	testutil.DecodeJSON(t, rec, &got)
	if got.GuildID != testGuildID {
		t.Errorf("GuildID: got %q, want %q", got.GuildID, testGuildID)
	}
	if len(got.Periods) != 2 {
		t.Errorf("Periods: got %v", got.Periods)
	}
}

func TestServeGet_NotFound(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := guildRequest(t, http.MethodGet, "/api/config/"+testGuildID, nil, testGuildID)
	rec := httptest.NewRecorder()
	handler.ServeGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body struct {
		Msg string `json:"msg"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if body.Msg == "" {
		t.Error("expected a msg field in the error body")
	}
}

func TestHandleUpsert(t *testing.T) {
	handler, store, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	payload := map[string]any{
		"guild_id": "999999999999999999",
		"periods":  []string{"Week1"},
		"bonus_rules": []map[string]float64{
			{"from": 500, "to": 999, "amount": 50},
			{"from": 0, "to": 499, "amount": 10},
		},
	}

	req := guildRequest(t, http.MethodPost, "/api/config/"+testGuildID, payload, testGuildID)
	rec := httptest.NewRecorder()
	handler.HandleUpsert(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got models.GuildConfig
	testutil.DecodeJSON(t, rec, &got)
	if got.GuildID != testGuildID {
		t.Errorf("body guild_id should be overridden with the path's: got %q", got.GuildID)
	}
	if len(got.BonusRules) != 2 || got.BonusRules[0].From != 0 {
		t.Errorf("expected sorted bonus rules, got %v", got.BonusRules)
	}

	stored, err := store.Get(ctx, testGuildID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(stored.Periods) != 1 || stored.Periods[0] != "Week1" {
		t.Errorf("stored periods: got %v", stored.Periods)
	}
}

func TestHandleUpsert_ValidationError(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	payload := map[string]any{
		"roles": map[string]float64{"123456789012345678": 150},
	}

	req := guildRequest(t, http.MethodPost, "/api/config/"+testGuildID, payload, testGuildID)
	rec := httptest.NewRecorder()
	handler.HandleUpsert(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleUpsert_BadBody(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/config/"+testGuildID, nil)
	req = testutil.WithChiURLParam(req, "guildID", testGuildID)
	rec := httptest.NewRecorder()
	handler.HandleUpsert(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleDelete(t *testing.T) {
	handler, store, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGuildConfig(ctx, testGuildID)

	req := guildRequest(t, http.MethodDelete, "/api/config/"+testGuildID, nil, testGuildID)
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := store.Get(ctx, testGuildID); err == nil {
		t.Error("expected config to be gone")
	}
}

func TestHandleDelete_NotFound(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := guildRequest(t, http.MethodDelete, "/api/config/"+testGuildID, nil, testGuildID)
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestServeGetField(t *testing.T) {
	handler, _, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGuildConfig(ctx, testGuildID, "Week1")

	req := guildRequest(t, http.MethodGet, "/api/config/"+testGuildID+"/periods", nil, testGuildID)
	req = testutil.WithChiURLParam(req, "field", "periods")
	rec := httptest.NewRecorder()
	handler.ServeGetField(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var periods []string
	testutil.DecodeJSON(t, rec, &periods)
	if len(periods) != 1 || periods[0] != "Week1" {
		t.Errorf("periods: got %v", periods)
	}
}

func TestServeGetField_UnknownField(t *testing.T) {
	handler, _, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGuildConfig(ctx, testGuildID)

	req := guildRequest(t, http.MethodGet, "/api/config/"+testGuildID+"/bogus", nil, testGuildID)
	req = testutil.WithChiURLParam(req, "field", "bogus")
	rec := httptest.NewRecorder()
	handler.ServeGetField(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSetField(t *testing.T) {
	handler, store, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGuildConfig(ctx, testGuildID, "Week1")

	req := guildRequest(t, http.MethodPut, "/api/config/"+testGuildID+"/models", []string{"Alpha", "Beta"}, testGuildID)
	req = testutil.WithChiURLParam(req, "field", "models")
	rec := httptest.NewRecorder()
	handler.HandleSetField(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var ms []string
	testutil.DecodeJSON(t, rec, &ms)
	if len(ms) != 2 {
		t.Errorf("models: got %v", ms)
	}

	cfg, err := store.Get(ctx, testGuildID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(cfg.Periods) != 1 {
		t.Errorf("expected periods untouched, got %v", cfg.Periods)
	}
}

func TestHandleSetField_BadValue(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := guildRequest(t, http.MethodPut, "/api/config/"+testGuildID+"/models", "not-a-list", testGuildID)
	req = testutil.WithChiURLParam(req, "field", "models")
	rec := httptest.NewRecorder()
	handler.HandleSetField(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
