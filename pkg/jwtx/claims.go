package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default lifetimes. Both tokens live for a week; the access token is kept
// fresh by silent rotation rather than by a short lifetime.
const (
	DefaultAccessTokenTTL  = 7 * 24 * time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims is anything a Codec can sign and verify.
type Claims interface {
	jwt.Claims
	stamp(now time.Time, ttl time.Duration)
}

// Timestamps carries the registered claims every token has (iat, exp). It is
// embedded by the concrete claim sets.
type Timestamps struct {
	jwt.RegisteredClaims
}

func (t *Timestamps) stamp(now time.Time, ttl time.Duration) {
	t.IssuedAt = jwt.NewNumericDate(now)
	t.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
}

// Remaining reports how long until exp, relative to now. ok is false when the
// token carries no exp claim.
func (t *Timestamps) Remaining(now time.Time) (d time.Duration, ok bool) {
	if t.ExpiresAt == nil {
		return 0, false
	}
	return t.ExpiresAt.Sub(now), true
}

// AccessClaims is the profile snapshot carried by an access token. Field
// names on the wire are what the mobile client already decodes.
type AccessClaims struct {
	UserID        string `json:"id"`
	Email         string `json:"email"`
	Firstname     string `json:"firstname"`
	Lastname      string `json:"lastname"`
	Pseudo        string `json:"pseudo"`
	IsElectricCar bool   `json:"isElectricCar"`

	Timestamps
}

// RefreshClaims is the minimal identity carried by a refresh token.
type RefreshClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`

	Timestamps
}
