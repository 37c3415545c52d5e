package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims is the bearer token payload. UserID duplicates Subject under the
// "_id" key older clients read.
type UserClaims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

func Sign(claims UserClaims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ClaimsFromToken verifies the signature and algorithm only. Expiry is left
// to the caller so expired tokens can still be rotated or revoked.
func ClaimsFromToken(tokenStr string, secret []byte) (*UserClaims, error) {
	var claims UserClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}

func (c *UserClaims) Expired(now time.Time) bool {
	return c.ExpiresAt == nil || !now.Before(c.ExpiresAt.Time)
}

// Owner returns the user id carried by the token.
func (c *UserClaims) Owner() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}
