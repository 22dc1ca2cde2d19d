// internal/domain/models/earning.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Earning is one ledger entry for a guild.
//
// EntryID is the caller-assigned stable key. It is globally unique: update
// and delete address entries by it alone, without a guild id. ID is internal
// storage identity and never leaves the API as anything but "_id".
type Earning struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	EntryID string             `bson:"entry_id" json:"id"`
	GuildID string             `bson:"guild_id" json:"guild_id"`

	// Date is an ISO-8601 calendar date (YYYY-MM-DD). Legacy DD/MM/YYYY
	// input is converted at the API boundary and never stored.
	Date string `bson:"date" json:"date"`

	// UserMention is Discord mention syntax: <@id> or <@!id>.
	UserMention string `bson:"user_mention" json:"user_mention"`

	GrossRevenue float64  `bson:"gross_revenue" json:"gross_revenue"`
	TotalCut     float64  `bson:"total_cut" json:"total_cut"`
	Period       string   `bson:"period" json:"period"`
	Shift        string   `bson:"shift" json:"shift"`
	Role         string   `bson:"role" json:"role"`
	Models       []string `bson:"models" json:"models"`
	HoursWorked  float64  `bson:"hours_worked" json:"hours_worked"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
