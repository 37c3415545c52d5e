// Package auth resolves the bearer token on a request to a user.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/models"
	"github.com/Skotchmaster/artshop/pkg/logging"
)

const (
	userKey  = "auth.user"
	tokenKey = "auth.token"
)

type TokenValidator interface {
	Validate(ctx context.Context, raw string, allowExpired bool) (*models.User, error)
}

type Guard struct {
	Tokens TokenValidator
}

type options struct {
	allowExpired bool
}

type Option func(*options)

// AllowExpired lets a correctly signed, still listed but expired token
// through. Only the logout and extend routes use it.
func AllowExpired() Option {
	return func(o *options) { o.allowExpired = true }
}

// Require rejects the request unless it carries a valid token.
func (g *Guard) Require(opts ...Option) echo.MiddlewareFunc {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := g.authenticate(c, o.allowExpired); err != nil {
				ae := apperr.From(err)
				logging.FromContext(c.Request().Context()).Warn("auth_failed",
					"status", ae.Kind.Status(),
					"reason", string(ae.Reason),
				)
				return err
			}
			return next(c)
		}
	}
}

// Optional attaches the user when the token is good and otherwise carries on
// anonymously.
func (g *Guard) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_ = g.authenticate(c, false)
			return next(c)
		}
	}
}

// RequireAdmin is Require plus an admin role check.
func (g *Guard) RequireAdmin() echo.MiddlewareFunc {
	require := g.Require()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return require(func(c echo.Context) error {
			if u := CurrentUser(c); u == nil || !u.IsAdmin() {
				logging.FromContext(c.Request().Context()).Warn("auth_failed", "status", http.StatusForbidden, "reason", "admin required")
				return apperr.New(apperr.Forbidden, "admin access required")
			}
			return next(c)
		})
	}
}

func (g *Guard) authenticate(c echo.Context, allowExpired bool) error {
	raw, ok := bearer(c.Request())
	if !ok {
		return apperr.Unauth(apperr.TokenMissing, "missing token", nil)
	}

	u, err := g.Tokens.Validate(c.Request().Context(), raw, allowExpired)
	if err != nil {
		return err
	}

	c.Set(userKey, u)
	c.Set(tokenKey, raw)

	l := logging.FromContext(c.Request().Context()).With("user_id", u.ID)
	c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))
	return nil
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentUser is nil on anonymous requests.
func CurrentUser(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}

func CurrentToken(c echo.Context) string {
	t, _ := c.Get(tokenKey).(string)
	return t
}
