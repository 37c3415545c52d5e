package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/domain"
	"github.com/Skotchmaster/artshop/internal/models"
	"github.com/Skotchmaster/artshop/internal/repo"
	"github.com/Skotchmaster/artshop/pkg/logging"
	"github.com/Skotchmaster/artshop/pkg/tokens"
)

// TokenService issues bearer tokens and checks them against the owner's
// token list. A token is only good while it is listed there.
type TokenService struct {
	Repo   repo.Repo
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	claims := tokens.UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	return tokens.Sign(claims, s.Secret)
}

// Validate resolves raw to its user. Expired tokens pass only when
// allowExpired is set.
func (s *TokenService) Validate(ctx context.Context, raw string, allowExpired bool) (*models.User, error) {
	claims, err := tokens.ClaimsFromToken(raw, s.Secret)
	if err != nil {
		return nil, apperr.Unauth(apperr.TokenMalformed, "invalid token", err)
	}
	if !allowExpired && claims.Expired(s.now()) {
		return nil, apperr.Unauth(apperr.TokenExpired, "token expired", nil)
	}

	id := claims.Owner()
	if !models.ValidID(id) {
		return nil, apperr.Unauth(apperr.TokenMalformed, "invalid token", nil)
	}

	u, err := s.Repo.UserByIDAndToken(ctx, id, raw)
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			return nil, apperr.Unauth(apperr.TokenRevoked, "token revoked", err)
		}
		return nil, err
	}
	return u, nil
}

// Extend swaps current for a fresh token in the same slot.
func (s *TokenService) Extend(ctx context.Context, u *models.User, current string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "token.extend", "user_id", u.ID)

	next, err := s.Issue(u.ID)
	if err != nil {
		l.Error("extend_failed", "reason", "cannot sign token", "error", err)
		return "", apperr.Wrap(apperr.Unknown, "", err)
	}

	list := domain.NewTokens(u.Tokens)
	if !list.Rotate(current, next) {
		return "", apperr.Unauth(apperr.TokenRevoked, "token revoked", nil)
	}
	u.Tokens = list.Values()

	if err := s.Repo.SaveUser(ctx, u); err != nil {
		l.Error("extend_failed", "reason", "cannot save user", "error", err)
		return "", err
	}
	return next, nil
}

// Revoke drops exactly one token. The user's other sessions stay valid.
func (s *TokenService) Revoke(ctx context.Context, u *models.User, token string) error {
	list := domain.NewTokens(u.Tokens)
	if !list.Revoke(token) {
		return nil
	}
	u.Tokens = list.Values()
	return s.Repo.SaveUser(ctx, u)
}
