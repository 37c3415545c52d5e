package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/artshop/internal/apperr"
)

type sample struct {
	Account  string   `json:"account"  validate:"required,alphanum,min=4,max=20"`
	Email    string   `json:"email"    validate:"required,email"`
	Category string   `json:"category" validate:"required,oneof=漫畫 插畫 素材 音樂 3D模型 遊戲 公仔"`
	Price    *float64 `json:"price"    validate:"required,gte=0"`
}

func ptr(f float64) *float64 { return &f }

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(&sample{Account: "artist1", Email: "a@b.co", Category: "3D模型", Price: ptr(0)})
	require.NoError(t, err)
}

func TestValidate_FieldMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    sample
		field string
		msg   string
	}{
		{
			name:  "missing account",
			in:    sample{Email: "a@b.co", Category: "漫畫", Price: ptr(1)},
			field: "account", msg: "account is required",
		},
		{
			name:  "short account",
			in:    sample{Account: "ab", Email: "a@b.co", Category: "漫畫", Price: ptr(1)},
			field: "account", msg: "account is too short",
		},
		{
			name:  "bad category",
			in:    sample{Account: "artist1", Email: "a@b.co", Category: "漫", Price: ptr(1)},
			field: "category", msg: "category is invalid",
		},
		{
			name:  "negative price",
			in:    sample{Account: "artist1", Email: "a@b.co", Category: "漫畫", Price: ptr(-1)},
			field: "price", msg: "price is too low",
		},
		{
			name:  "missing price",
			in:    sample{Account: "artist1", Email: "a@b.co", Category: "漫畫"},
			field: "price", msg: "price is required",
		},
		{
			name:  "bad email",
			in:    sample{Account: "artist1", Email: "nope", Category: "漫畫", Price: ptr(1)},
			field: "email", msg: "email must be a valid email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := New().Validate(&tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)

			e := apperr.From(err)
			assert.Equal(t, tt.msg, e.Fields[tt.field])
			assert.Equal(t, tt.msg, e.PublicMessage())
		})
	}
}
