// internal/app/store/earnings/earningstore.go
package earningstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/apierr"
	"github.com/dalemusser/guildhub/internal/app/system/normalize"
	"github.com/dalemusser/guildhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateEntryID is returned when the caller-assigned entry id already
// exists. Entry ids are globally unique, not per-guild: update and delete
// address entries by id alone.
var ErrDuplicateEntryID = errors.New("an earning with this id already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("earnings")}
}

// List returns all earnings for a guild, oldest first. A guild with no
// entries yields an empty slice, never an error.
func (s *Store) List(ctx context.Context, guildID string) ([]models.Earning, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"guild_id": normalize.GuildID(guildID)},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	earnings := []models.Earning{}
	if err := cur.All(ctx, &earnings); err != nil {
		return nil, err
	}
	return earnings, nil
}

// GetByEntryID loads one earning by its caller-assigned id.
func (s *Store) GetByEntryID(ctx context.Context, entryID string) (*models.Earning, error) {
	var e models.Earning
	if err := s.c.FindOne(ctx, bson.M{"entry_id": entryID}).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new earning for a guild. The guild id is forced from
// the path argument; the entry id must not collide with any existing entry
// in any guild.
func (s *Store) Create(ctx context.Context, guildID string, e models.Earning) (models.Earning, error) {
	guildID = normalize.GuildID(guildID)
	if guildID == "" {
		return models.Earning{}, apierr.Validation("guild id is required")
	}
	e.GuildID = guildID

	if err := validateEarning(&e); err != nil {
		return models.Earning{}, err
	}

	now := time.Now()
	e.ID = primitive.NewObjectID()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Models == nil {
		e.Models = []string{}
	}

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Earning{}, ErrDuplicateEntryID
		}
		return models.Earning{}, err
	}
	return e, nil
}

// Update holds the fields a partial update may change. Identity fields
// (entry id, storage id, guild id) have no representation here, so an
// update payload can never move an entry between guilds or re-key it.
type Update struct {
	Date         *string
	UserMention  *string
	GrossRevenue *float64
	TotalCut     *float64
	Period       *string
	Shift        *string
	Role         *string
	Models       *[]string
	HoursWorked  *float64
}

// UpdateEntry applies a partial update to the earning with the given
// caller-assigned id. Returns mongo.ErrNoDocuments if no such entry exists.
func (s *Store) UpdateEntry(ctx context.Context, entryID string, upd Update) (*models.Earning, error) {
	set := bson.M{"updated_at": time.Now()}

	if upd.Date != nil {
		if !validISODate(*upd.Date) {
			return nil, apierr.Validation("date must be an ISO-8601 calendar date (YYYY-MM-DD)")
		}
		set["date"] = *upd.Date
	}
	if upd.UserMention != nil {
		set["user_mention"] = *upd.UserMention
	}
	if upd.GrossRevenue != nil {
		if *upd.GrossRevenue < 0 {
			return nil, apierr.Validation("gross_revenue must be >= 0")
		}
		set["gross_revenue"] = *upd.GrossRevenue
	}
	if upd.TotalCut != nil {
		if *upd.TotalCut < 0 {
			return nil, apierr.Validation("total_cut must be >= 0")
		}
		set["total_cut"] = *upd.TotalCut
	}
	if upd.Period != nil {
		set["period"] = *upd.Period
	}
	if upd.Shift != nil {
		set["shift"] = *upd.Shift
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.Models != nil {
		set["models"] = *upd.Models
	}
	if upd.HoursWorked != nil {
		if *upd.HoursWorked < 0 {
			return nil, apierr.Validation("hours_worked must be >= 0")
		}
		set["hours_worked"] = *upd.HoursWorked
	}

	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"entry_id": entryID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var e models.Earning
	if err := res.Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEntry removes one earning by caller-assigned id. Returns
// mongo.ErrNoDocuments if no such entry exists.
func (s *Store) DeleteEntry(ctx context.Context, entryID string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"entry_id": entryID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func validateEarning(e *models.Earning) error {
	if e.EntryID == "" {
		return apierr.Validation("id is required")
	}
	if e.UserMention == "" {
		return apierr.Validation("user_mention is required")
	}
	if e.Date != "" && !validISODate(e.Date) {
		return apierr.Validation("date must be an ISO-8601 calendar date (YYYY-MM-DD)")
	}
	if e.GrossRevenue < 0 {
		return apierr.Validation("gross_revenue must be >= 0")
	}
	if e.TotalCut < 0 {
		return apierr.Validation("total_cut must be >= 0")
	}
	if e.HoursWorked < 0 {
		return apierr.Validation("hours_worked must be >= 0")
	}
	return nil
}

func validISODate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
