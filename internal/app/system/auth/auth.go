// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/apierr"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Token issuing & validation                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

var (
	// ErrTokenExpired is returned for a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed is returned when the token cannot be parsed.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrInvalidSignature is returned when the signature does not verify.
	ErrInvalidSignature = errors.New("invalid token signature")
)

// Claims is what a session token carries. Role is a snapshot taken at
// issue time: authorization decisions that depend on a manager's guild
// set must re-fetch it from the user directory, never trust the token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and validates signed session tokens. There is no
// revocation list: logout is client-side discard, and a leaked token
// stays valid until its natural expiry.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	log    *zap.Logger
}

// NewManager constructs a token Manager. The secret must be non-empty and
// the ttl positive; a zero or negative ttl would mint tokens that are
// already expired, so it is a configuration error, not a default.
func NewManager(secret string, ttl time.Duration, issuer string, logger *zap.Logger) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token ttl must be positive")
	}
	return &Manager{secret: []byte(secret), ttl: ttl, issuer: issuer, log: logger}, nil
}

// Issue signs a token for the given user. The embedded role is immutable
// for the token's lifetime; role changes require re-issuing.
func (m *Manager) Issue(u *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID.Hex(),
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   u.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// Validate parses and verifies a token string. It is pure (no I/O).
// Expiry is rejected independently of other concerns: an expired token
// is always ErrTokenExpired, whatever role it encodes.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return m.secret, nil
	})
	switch {
	case err == nil:
		return &claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrInvalidSignature
	default:
		return nil, ErrTokenMalformed
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Request principal                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const claimsKey ctxKey = "sessionClaims"

// CurrentClaims returns the authenticated caller's claims and a found flag.
func CurrentClaims(r *http.Request) (*Claims, bool) {
	c, ok := r.Context().Value(claimsKey).(*Claims)
	return c, ok
}

// WithTestClaims injects claims directly into the request context,
// bypassing the bearer middleware. Test helper only.
func WithTestClaims(r *http.Request, c *Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey, c))
}

// RequireSignedIn parses the Authorization header, validates the bearer
// token, and injects the claims into context. Missing, malformed, badly
// signed, and expired tokens all produce 401 with a {msg} body that never
// reveals whether an account exists.
func (m *Manager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			apierr.Write(w, apierr.Unauthorized("missing or invalid authorization header"))
			return
		}

		claims, err := m.Validate(raw)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				apierr.Write(w, apierr.Unauthorized("token expired"))
			default:
				apierr.Write(w, apierr.Unauthorized("invalid token"))
			}
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route on the role snapshot in the token. It must sit
// inside RequireSignedIn. Scope checks against live data belong in authz,
// not here.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := CurrentClaims(r)
			if !ok {
				apierr.Write(w, apierr.Unauthorized("authentication required"))
				return
			}
			if _, allowed := set[strings.ToLower(c.Role)]; !allowed {
				apierr.Write(w, apierr.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
