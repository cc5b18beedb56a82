package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiredJWT reports whether token is a JWT whose exp claim lies before now.
// The signature is not checked; the server stays the authority. Opaque tokens
// and JWTs without exp are never considered expired.
func expiredJWT(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(now)
}
