package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{DuplicateKey, http.StatusConflict},
		{Cast, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{Unauthorized, http.StatusUnauthorized},
		{EmptyCart, http.StatusBadRequest},
		{UnsellableItem, http.StatusBadRequest},
		{ProductUnavailable, http.StatusNotFound},
		{Forbidden, http.StatusForbidden},
		{Unknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestError_IsMatchesKindThroughWrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("edit cart: %w", New(ProductUnavailable, "product not found"))

	assert.ErrorIs(t, err, ErrProductUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, ProductUnavailable, KindOf(err))
}

func TestError_IsMatchesReason(t *testing.T) {
	t.Parallel()

	err := Unauth(TokenExpired, "token expired", nil)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, &Error{Kind: Unauthorized, Reason: TokenExpired})
	assert.NotErrorIs(t, err, &Error{Kind: Unauthorized, Reason: TokenRevoked})
}

func TestFrom_UntaggedIsUnknownAndHidden(t *testing.T) {
	t.Parallel()

	raw := errors.New("pq: relation \"users\" does not exist")
	e := From(raw)

	require.Equal(t, Unknown, e.Kind)
	assert.Equal(t, "internal error", e.PublicMessage())
	assert.ErrorIs(t, e, raw)
}

func TestInvalid_CarriesField(t *testing.T) {
	t.Parallel()

	e := Invalid("category", "category is invalid")

	assert.Equal(t, "category is invalid", e.PublicMessage())
	assert.Equal(t, map[string]string{"category": "category is invalid"}, e.Fields)
}
