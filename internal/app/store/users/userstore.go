// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/normalize"
	"github.com/dalemusser/guildhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrSelfDeleteForbidden is returned when a user attempts to delete their own account.
	ErrSelfDeleteForbidden = errors.New("users may not delete their own account")
	// ErrLastAdmin is returned when an operation would leave the system with zero admins.
	ErrLastAdmin = errors.New("the last remaining admin cannot be removed or demoted")

	errBadRole  = errors.New(`role must be "admin"|"manager"`)
	errBadEmail = errors.New("email must not be empty")
)

type Store struct {
	users   *mongo.Collection
	configs *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		users:   db.Collection("users"),
		configs: db.Collection("guild_configs"),
	}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user with a bcrypt-hashed credential. Registration
// always produces a manager with an empty managed set; admins are minted
// only by an existing admin (Update) or the startup bootstrap.
func (s *Store) Create(ctx context.Context, email, password, role string) (models.User, error) {
	email = normalize.Email(email)
	if email == "" {
		return models.User{}, errBadEmail
	}
	switch role {
	case models.RoleAdmin, models.RoleManager:
		// ok
	default:
		return models.User{}, errBadRole
	}

	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now()
	u := models.User{
		ID:              primitive.NewObjectID(),
		Email:           email,
		PasswordHash:    hash,
		Role:            role,
		ManagedGuildIDs: []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// VerifyPassword checks a plaintext password against the stored hash.
func VerifyPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ListAll returns every user, newest first. Admin-only at the route layer.
func (s *Store) ListAll(ctx context.Context) ([]models.User, error) {
	cur, err := s.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Update holds the admin-editable fields. Nil means "leave unchanged".
type Update struct {
	Role            *string
	ManagedGuildIDs *[]string
}

// UpdateUser applies an admin edit to a user.
//
// Invariants enforced here:
//   - role=admin clears managed_guild_ids, whatever the payload carried
//     (admins implicitly manage all guilds);
//   - role=manager takes the payload set verbatim (empty set allowed);
//   - demoting the last remaining admin is rejected with ErrLastAdmin.
func (s *Store) UpdateUser(ctx context.Context, id primitive.ObjectID, upd Update) (*models.User, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now()}

	if upd.Role != nil {
		switch *upd.Role {
		case models.RoleAdmin:
			set["role"] = models.RoleAdmin
			set["managed_guild_ids"] = []string{}
		case models.RoleManager:
			if current.Role == models.RoleAdmin {
				if err := s.ensureNotLastAdmin(ctx, id); err != nil {
					return nil, err
				}
			}
			set["role"] = models.RoleManager
		default:
			return nil, errBadRole
		}
	}

	// Managed guilds only apply to managers; an admin assignment above
	// already cleared them and wins.
	if upd.ManagedGuildIDs != nil {
		if _, forced := set["managed_guild_ids"]; !forced {
			ids := make([]string, 0, len(*upd.ManagedGuildIDs))
			for _, g := range *upd.ManagedGuildIDs {
				if g = normalize.GuildID(g); g != "" {
					ids = append(ids, g)
				}
			}
			set["managed_guild_ids"] = ids
		}
	}

	res := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		mongoReturnUpdated(),
	)
	var u models.User
	if err := res.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetPassword replaces a user's credential. Callers decide who may do
// this (the owner, or an admin resetting an account).
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteUser removes a user. A requester may never delete themselves, and
// the last remaining admin may never be deleted.
func (s *Store) DeleteUser(ctx context.Context, requesterID, id primitive.ObjectID) error {
	if requesterID == id {
		return ErrSelfDeleteForbidden
	}

	target, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Role == models.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, id); err != nil {
			return err
		}
	}

	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AvailableGuildIDs returns the universe of guild ids known to the system,
// derived from existing guild config documents.
func (s *Store) AvailableGuildIDs(ctx context.Context) ([]string, error) {
	raw, err := s.configs.Distinct(ctx, "guild_id", bson.M{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ensureNotLastAdmin fails if no admin other than excludeID exists.
func (s *Store) ensureNotLastAdmin(ctx context.Context, excludeID primitive.ObjectID) error {
	n, err := s.users.CountDocuments(ctx, bson.M{
		"role": models.RoleAdmin,
		"_id":  bson.M{"$ne": excludeID},
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLastAdmin
	}
	return nil
}

func mongoReturnUpdated() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// hashPassword hashes a password using bcrypt with a cost of 12.
func hashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
