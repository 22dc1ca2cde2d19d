// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email lowercases and trims an email address for storage and lookup.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GuildID trims a guild id taken from a URL path or payload.
func GuildID(s string) string {
	return strings.TrimSpace(s)
}

// MentionID extracts the bare snowflake from Discord mention syntax.
// "<@123>" and "<@!123>" both yield "123"; anything else is returned
// trimmed, so plain ids pass through.
func MentionID(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<@") && strings.HasSuffix(s, ">") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "<@"), ">")
		s = strings.TrimPrefix(s, "!")
	}
	return s
}

// IsSnowflake reports whether s looks like a Discord snowflake id:
// non-empty and all ASCII digits.
func IsSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
