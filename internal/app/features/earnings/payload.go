// internal/app/features/earnings/payload.go
package earnings

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The ledger's legacy clients are sloppy about types: amounts arrive as
// numbers or numeric strings, models as a string or a list, dates as
// ISO or DD/MM/YYYY. The types below accept the legacy shapes at the
// boundary and normalize to the canonical representation; genuinely bad
// input (a non-numeric amount) is a hard validation failure, never a
// silent zero.

// amount is a float64 that also accepts a numeric JSON string.
type amount struct {
	set bool
	v   float64
}

func (a *amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", str)
		}
		a.set, a.v = true, f
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%s is not a number", s)
	}
	a.set, a.v = true, f
	return nil
}

// stringList is a []string that also accepts a bare string.
type stringList struct {
	set bool
	v   []string
}

func (l *stringList) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		l.set, l.v = true, []string{str}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("models must be a string or a list of strings")
	}
	l.set, l.v = true, list
	return nil
}

// isoDate is an ISO-8601 calendar date that also accepts DD/MM/YYYY.
type isoDate struct {
	set bool
	v   string
}

func (d *isoDate) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", str); err == nil {
		d.set, d.v = true, t.Format("2006-01-02")
		return nil
	}
	if t, err := time.Parse("02/01/2006", str); err == nil {
		d.set, d.v = true, t.Format("2006-01-02")
		return nil
	}
	return fmt.Errorf("%q is not a valid date (want YYYY-MM-DD)", str)
}

// entryPayload is the transport shape for create and partial update.
// There is deliberately no _id or guild_id field: identity always comes
// from the URL, so a payload cannot re-key or move an entry.
type entryPayload struct {
	EntryID      string     `json:"id"`
	Date         isoDate    `json:"date"`
	UserMention  string     `json:"user_mention"`
	GrossRevenue amount     `json:"gross_revenue"`
	TotalCut     amount     `json:"total_cut"`
	Period       *string    `json:"period"`
	Shift        *string    `json:"shift"`
	Role         *string    `json:"role"`
	Models       stringList `json:"models"`
	HoursWorked  amount     `json:"hours_worked"`
}
