package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSignature covers every way a token can fail verification
	// except expiry: malformed input, wrong algorithm, wrong secret, altered
	// bytes.
	ErrInvalidSignature = errors.New("jwtx: invalid token")
	ErrExpired          = errors.New("jwtx: token expired")
	ErrEmptySecret      = errors.New("jwtx: empty secret")
)

const algorithm = "HS256"

// Verifier checks a token and decodes its claims into the given value.
type Verifier interface {
	Verify(token string, into Claims) error
}

// Codec signs and verifies HS256 tokens with a single shared secret. Access
// and refresh tokens use two Codecs with different secrets, so a token of one
// kind never verifies as the other.
type Codec struct {
	secret []byte

	// Now is the clock used for iat/exp. Defaults to time.Now.
	Now func() time.Time
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Codec{secret: []byte(secret), Now: time.Now}, nil
}

func (c *Codec) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Issue stamps iat and exp on claims and signs them. The output is
// deterministic for identical claims, secret and instant.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	claims.stamp(c.now(), ttl)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and decodes it into into.
// It returns ErrExpired or ErrInvalidSignature, never a library error.
func (c *Codec) Verify(token string, into Claims) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{algorithm}),
		jwt.WithTimeFunc(c.now),
	)

	_, err := parser.ParseWithClaims(token, into, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrInvalidSignature
	}
}
