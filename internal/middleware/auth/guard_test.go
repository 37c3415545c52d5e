package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/models"
	"github.com/Skotchmaster/artshop/pkg/logging"
)

type fakeTokens struct {
	users   map[string]*models.User
	expired map[string]bool
}

func (f *fakeTokens) Validate(_ context.Context, raw string, allowExpired bool) (*models.User, error) {
	if raw == "broken" {
		return nil, errors.New("token store unreachable")
	}
	if f.expired[raw] && !allowExpired {
		return nil, apperr.Unauth(apperr.TokenExpired, "token expired", nil)
	}
	u, ok := f.users[raw]
	if !ok {
		return nil, apperr.Unauth(apperr.TokenRevoked, "token revoked", nil)
	}
	return u, nil
}

func newGuard() *Guard {
	return &Guard{Tokens: &fakeTokens{
		users: map[string]*models.User{
			"good":  {ID: "u1", Role: models.RoleUser},
			"old":   {ID: "u1", Role: models.RoleUser},
			"admin": {ID: "a1", Role: models.RoleAdmin},
		},
		expired: map[string]bool{"old": true},
	}}
}

func run(t *testing.T, mw echo.MiddlewareFunc, header string) (*models.User, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen *models.User
	err := mw(func(c echo.Context) error {
		seen = CurrentUser(c)
		return nil
	})(c)
	return seen, err
}

func TestGuard_Require(t *testing.T) {
	t.Parallel()

	g := newGuard()
	tests := []struct {
		name   string
		mw     echo.MiddlewareFunc
		header string
		reason apperr.Reason
	}{
		{name: "ok", mw: g.Require(), header: "Bearer good"},
		{name: "lowercase scheme", mw: g.Require(), header: "bearer good"},
		{name: "missing", mw: g.Require(), reason: apperr.TokenMissing},
		{name: "wrong scheme", mw: g.Require(), header: "Basic good", reason: apperr.TokenMissing},
		{name: "empty bearer", mw: g.Require(), header: "Bearer ", reason: apperr.TokenMissing},
		{name: "revoked", mw: g.Require(), header: "Bearer nope", reason: apperr.TokenRevoked},
		{name: "expired", mw: g.Require(), header: "Bearer old", reason: apperr.TokenExpired},
		{name: "expired allowed", mw: g.Require(AllowExpired()), header: "Bearer old"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := run(t, tt.mw, tt.header)
			if tt.reason == "" {
				require.NoError(t, err)
				require.NotNil(t, u)
				assert.Equal(t, "u1", u.ID)
				return
			}
			assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.Unauthorized, Reason: tt.reason})
			assert.Nil(t, u)
		})
	}
}

func TestGuard_Optional(t *testing.T) {
	t.Parallel()

	g := newGuard()

	u, err := run(t, g.Optional(), "Bearer good")
	require.NoError(t, err)
	require.NotNil(t, u)

	u, err = run(t, g.Optional(), "Bearer nope")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = run(t, g.Optional(), "")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGuard_RequireAdmin(t *testing.T) {
	t.Parallel()

	g := newGuard()

	u, err := run(t, g.RequireAdmin(), "Bearer admin")
	require.NoError(t, err)
	assert.Equal(t, "a1", u.ID)

	_, err = run(t, g.RequireAdmin(), "Bearer good")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = run(t, g.RequireAdmin(), "")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestGuard_Require_LogsStatusOfFailure(t *testing.T) {
	t.Parallel()

	g := newGuard()
	tests := []struct {
		name   string
		header string
		kind   apperr.Kind
		status string
	}{
		{name: "revoked token", header: "Bearer nope", kind: apperr.Unauthorized, status: `"status":401`},
		{name: "store failure", header: "Bearer broken", kind: apperr.Unknown, status: `"status":500`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(logging.IntoContext(req.Context(), logger))
			req.Header.Set(echo.HeaderAuthorization, tt.header)
			c := e.NewContext(req, httptest.NewRecorder())

			err := g.Require()(func(echo.Context) error { return nil })(c)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			assert.Contains(t, buf.String(), `"msg":"auth_failed"`)
			assert.Contains(t, buf.String(), tt.status)
		})
	}
}
