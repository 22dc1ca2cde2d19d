// internal/app/store/guildconfigs/configstore.go
package configstore

import (
	"context"
	"encoding/json"
	"reflect"
	"sort"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/apierr"
	"github.com/dalemusser/guildhub/internal/app/system/normalize"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection

	// sanitizer strips markup from free-text display settings before they
	// are stored; the values end up rendered in bot responses and the UI.
	sanitizer *bluemonday.Policy
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:         db.Collection("guild_configs"),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Get loads the config for a guild. Returns mongo.ErrNoDocuments when the
// guild has never been configured; callers decide whether that is a 404 or
// "use defaults".
func (s *Store) Get(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	var cfg models.GuildConfig
	if err := s.c.FindOne(ctx, bson.M{"guild_id": normalize.GuildID(guildID)}).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert replaces the whole config document for a guild (create-or-replace,
// not merge-patch: omitted fields are cleared). The guild_id is always
// forced from the path argument, never trusted from the payload.
func (s *Store) Upsert(ctx context.Context, guildID string, cfg models.GuildConfig) (models.GuildConfig, error) {
	guildID = normalize.GuildID(guildID)
	if guildID == "" {
		return models.GuildConfig{}, apierr.Validation("guild id is required")
	}
	cfg.GuildID = guildID

	s.normalizeConfig(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return models.GuildConfig{}, err
	}

	now := time.Now()
	cfg.UpdatedAt = now

	// Preserve identity and creation time across replaces. Last write wins
	// on concurrent saves; there is no version token.
	existing, err := s.Get(ctx, guildID)
	switch {
	case err == nil:
		cfg.ID = existing.ID
		cfg.CreatedAt = existing.CreatedAt
	case err == mongo.ErrNoDocuments:
		cfg.ID = primitive.NewObjectID()
		cfg.CreatedAt = now
	default:
		return models.GuildConfig{}, err
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.c.ReplaceOne(ctx, bson.M{"guild_id": guildID}, cfg, opts); err != nil {
		return models.GuildConfig{}, err
	}
	return cfg, nil
}

// Delete removes a guild's config. Earnings for the guild are untouched
// (they become orphaned, by design). Returns mongo.ErrNoDocuments when no
// config existed.
func (s *Store) Delete(ctx context.Context, guildID string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"guild_id": normalize.GuildID(guildID)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Config field names addressable via GetField/SetField.
const (
	FieldModels             = "models"
	FieldShifts             = "shifts"
	FieldPeriods            = "periods"
	FieldBonusRules         = "bonus_rules"
	FieldDisplaySettings    = "display_settings"
	FieldCommissionSettings = "commission_settings"
	FieldRoles              = "roles"
)

// GetField returns a single config field. Unknown field names are a
// validation error, and a missing document is mongo.ErrNoDocuments.
func (s *Store) GetField(ctx context.Context, guildID, field string) (any, error) {
	cfg, err := s.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}

	switch field {
	case FieldModels:
		return cfg.Models, nil
	case FieldShifts:
		return cfg.Shifts, nil
	case FieldPeriods:
		return cfg.Periods, nil
	case FieldBonusRules:
		return cfg.BonusRules, nil
	case FieldDisplaySettings:
		return cfg.DisplaySettings, nil
	case FieldCommissionSettings:
		return cfg.CommissionSettings, nil
	case FieldRoles:
		return cfg.Roles, nil
	default:
		return nil, apierr.Validationf("unknown config field %q", field)
	}
}

// SetField updates a single config field, applying the same invariants as a
// full upsert (guild_id ownership, range validation, sanitation, sorting).
// The document is created implicitly if the guild has no config yet.
func (s *Store) SetField(ctx context.Context, guildID, field string, value any) (any, error) {
	guildID = normalize.GuildID(guildID)
	if guildID == "" {
		return nil, apierr.Validation("guild id is required")
	}

	cfg, err := s.Get(ctx, guildID)
	switch {
	case err == mongo.ErrNoDocuments:
		fresh := models.GuildConfig{GuildID: guildID}
		s.normalizeConfig(&fresh)
		cfg = &fresh
	case err != nil:
		return nil, err
	}

	if err := applyField(cfg, field, value); err != nil {
		return nil, err
	}

	saved, err := s.Upsert(ctx, guildID, *cfg)
	if err != nil {
		return nil, err
	}
	return s.GetField(ctx, saved.GuildID, field)
}

// DecodeField decodes a raw JSON payload into the Go value for a config
// field, so SetField callers don't need to know the field's shape.
func DecodeField(field string, raw []byte) (any, error) {
	decode := func(dst any) (any, error) {
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, apierr.Validationf("invalid value for field %q", field)
		}
		return reflect.ValueOf(dst).Elem().Interface(), nil
	}

	switch field {
	case FieldModels, FieldShifts, FieldPeriods:
		return decode(&[]string{})
	case FieldBonusRules:
		return decode(&[]models.BonusRule{})
	case FieldDisplaySettings:
		return decode(&models.DisplaySettings{})
	case FieldCommissionSettings:
		return decode(&models.CommissionSettings{})
	case FieldRoles:
		return decode(&map[string]float64{})
	default:
		return nil, apierr.Validationf("unknown config field %q", field)
	}
}

// applyField assigns a decoded payload value onto the config.
func applyField(cfg *models.GuildConfig, field string, value any) error {
	switch field {
	case FieldModels:
		v, ok := value.([]string)
		if !ok {
			return apierr.Validation("models must be a list of strings")
		}
		cfg.Models = v
	case FieldShifts:
		v, ok := value.([]string)
		if !ok {
			return apierr.Validation("shifts must be a list of strings")
		}
		cfg.Shifts = v
	case FieldPeriods:
		v, ok := value.([]string)
		if !ok {
			return apierr.Validation("periods must be a list of strings")
		}
		cfg.Periods = v
	case FieldBonusRules:
		v, ok := value.([]models.BonusRule)
		if !ok {
			return apierr.Validation("bonus_rules must be a list of {from,to,amount}")
		}
		cfg.BonusRules = v
	case FieldDisplaySettings:
		v, ok := value.(models.DisplaySettings)
		if !ok {
			return apierr.Validation("display_settings has the wrong shape")
		}
		cfg.DisplaySettings = v
	case FieldCommissionSettings:
		v, ok := value.(models.CommissionSettings)
		if !ok {
			return apierr.Validation("commission_settings has the wrong shape")
		}
		cfg.CommissionSettings = v
	case FieldRoles:
		v, ok := value.(map[string]float64)
		if !ok {
			return apierr.Validation("roles must map role ids to percentages")
		}
		cfg.Roles = v
	default:
		return apierr.Validationf("unknown config field %q", field)
	}
	return nil
}

// normalizeConfig defaults nil collections, sorts bonus rules ascending by
// from, and sanitizes free-text display settings.
func (s *Store) normalizeConfig(cfg *models.GuildConfig) {
	if cfg.Models == nil {
		cfg.Models = []string{}
	}
	if cfg.Shifts == nil {
		cfg.Shifts = []string{}
	}
	if cfg.Periods == nil {
		cfg.Periods = []string{}
	}
	if cfg.BonusRules == nil {
		cfg.BonusRules = []models.BonusRule{}
	}
	if cfg.Roles == nil {
		cfg.Roles = map[string]float64{}
	}
	if cfg.CommissionSettings.Roles == nil {
		cfg.CommissionSettings.Roles = map[string]models.RoleCommission{}
	}
	if cfg.CommissionSettings.Users == nil {
		cfg.CommissionSettings.Users = map[string]models.UserCommission{}
	}

	sort.SliceStable(cfg.BonusRules, func(i, j int) bool {
		return cfg.BonusRules[i].From < cfg.BonusRules[j].From
	})

	cfg.DisplaySettings.AgencyName = s.sanitizer.Sanitize(cfg.DisplaySettings.AgencyName)
	cfg.DisplaySettings.BotName = s.sanitizer.Sanitize(cfg.DisplaySettings.BotName)
}

// validateConfig enforces the write-time invariants. Cross-field bonus
// rule checks (to >= from, non-overlap) are deliberately absent: existing
// data was accepted without them.
func validateConfig(cfg *models.GuildConfig) error {
	for _, r := range cfg.BonusRules {
		if r.From < 0 || r.To < 0 || r.Amount < 0 {
			return apierr.Validation("bonus rule from, to and amount must be >= 0")
		}
	}

	for key, rc := range cfg.CommissionSettings.Roles {
		if !validMapKey(key) {
			return apierr.Validationf("commission role key %q is not a valid identifier", key)
		}
		if rc.CommissionPercentage < 0 || rc.CommissionPercentage > 100 {
			return apierr.Validationf("commission_percentage for role %q must be within [0,100]", key)
		}
	}

	for key, uc := range cfg.CommissionSettings.Users {
		if !validMapKey(key) {
			return apierr.Validationf("commission user key %q is not a valid identifier", key)
		}
		if uc.HourlyRate < 0 {
			return apierr.Validationf("hourly_rate for user %q must be >= 0", key)
		}
		if uc.CommissionPercentage != nil && (*uc.CommissionPercentage < 0 || *uc.CommissionPercentage > 100) {
			return apierr.Validationf("commission_percentage for user %q must be within [0,100]", key)
		}
	}

	for key, pct := range cfg.Roles {
		if !validMapKey(key) {
			return apierr.Validationf("role key %q is not a valid identifier", key)
		}
		if pct < 0 || pct > 100 {
			return apierr.Validationf("percentage for role %q must be within [0,100]", key)
		}
	}

	return nil
}

// validMapKey accepts Discord snowflakes, bare or in mention syntax.
func validMapKey(key string) bool {
	return normalize.IsSnowflake(normalize.MentionID(key))
}
