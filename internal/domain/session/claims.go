package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the exp claim from a bearer token without
// verifying its signature. The client never validates tokens -- that is
// the backend's job -- it only reads the expiry to drop dead sessions
// locally instead of burning a request on a guaranteed 401.
// Returns the zero time when the token is not a JWT or carries no exp.
func TokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
