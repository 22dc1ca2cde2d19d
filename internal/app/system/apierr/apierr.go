// internal/app/system/apierr/apierr.go
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
)

// Error is a typed API error carrying the HTTP status it maps to.
// Stores raise these (or sentinel errors the constructors wrap) and the
// handler layer writes them with Write.
type Error struct {
	Status int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Msg)
}

// Unauthorized is a missing/invalid/expired credential (401).
// The message must never reveal whether an account exists.
func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Msg: msg}
}

// Forbidden is an authenticated caller without sufficient role/scope (403).
func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Msg: msg}
}

// NotFound is a missing resource (404). The config feature maps "guild has
// no config yet" onto this too; its clients treat that 404 as "use defaults".
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Msg: msg}
}

// Validation is a malformed payload, out-of-range field, or duplicate
// caller-assigned id (400). Prefer field-level messages.
func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Msg: msg}
}

// Validationf is Validation with formatting.
func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

// Internal is an unexpected failure (500). The message is generic; the
// underlying error belongs in the log, not the response.
func Internal() *Error {
	return &Error{Status: http.StatusInternalServerError, Msg: "internal server error"}
}

// body is the wire shape every error response uses.
type body struct {
	Msg string `json:"msg"`
}

// Write renders err as an HTTP response. Typed *Error values keep their
// status; mongo.ErrNoDocuments becomes 404; anything else becomes 500.
func Write(w http.ResponseWriter, err error) {
	e := From(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(body{Msg: e.Msg})
}

// From normalizes any error to a typed *Error.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("not found")
	}
	return Internal()
}
