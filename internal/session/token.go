package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether a persisted JWT is already past its exp claim.
// The parse is unverified: this is a local pre-check to skip a revalidation
// round trip that is certain to fail, not a trust decision. Tokens that do
// not parse as JWTs or carry no exp claim report false and are left to the
// gateway to judge.
func TokenExpired(token string) bool {
	return tokenExpiredAt(token, time.Now())
}

func tokenExpiredAt(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
