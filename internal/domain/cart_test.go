package domain

import (
	"testing"

	"github.com/Skotchmaster/artshop/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddThenMerge(t *testing.T) {
	t.Parallel()

	c := NewCart(nil)
	require.NoError(t, c.Add("p1", 2))
	assert.True(t, c.Adjust("p1", 3))

	assert.Equal(t, []models.CartLine{{ProductID: "p1", Quantity: 5}}, c.Lines())
	assert.Equal(t, 5, c.Total())
}

func TestCart_AdjustToZeroRemoves(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		delta int
	}{
		{name: "exactly zero", delta: -2},
		{name: "below zero", delta: -7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewCart([]models.CartLine{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}})
			assert.False(t, c.Adjust("p1", tt.delta))
			assert.False(t, c.Has("p1"))
			assert.Equal(t, []models.CartLine{{ProductID: "p2", Quantity: 1}}, c.Lines())
			assert.Equal(t, 1, c.Total())

			assert.True(t, c.Adjust("p2", 1))
			assert.Equal(t, 2, c.Quantity("p2"))
		})
	}
}

func TestCart_AddRejects(t *testing.T) {
	t.Parallel()

	c := NewCart([]models.CartLine{{ProductID: "p1", Quantity: 1}})

	assert.ErrorIs(t, c.Add("p2", 0), ErrNonPositiveQuantity)
	assert.ErrorIs(t, c.Add("p2", -1), ErrNonPositiveQuantity)
	assert.ErrorIs(t, c.Add("p1", 1), ErrLineExists)
	assert.Equal(t, 1, c.Len())
}

func TestCart_DoesNotAliasInput(t *testing.T) {
	t.Parallel()

	in := []models.CartLine{{ProductID: "p1", Quantity: 1}}
	c := NewCart(in)
	c.Adjust("p1", 4)

	assert.Equal(t, 1, in[0].Quantity)
	assert.Equal(t, []string{"p1"}, c.ProductIDs())
}

func TestLikes_SetIsIdempotent(t *testing.T) {
	t.Parallel()

	l := NewLikes(nil)
	assert.True(t, l.Set("p1", true))
	assert.False(t, l.Set("p1", true))
	assert.Equal(t, []string{"p1"}, l.IDs())

	assert.True(t, l.Set("p1", false))
	assert.False(t, l.Set("p1", false))
	assert.Equal(t, 0, l.Len())
}

func TestLikes_DedupesStoredInput(t *testing.T) {
	t.Parallel()

	l := NewLikes([]string{"a", "b", "a"})
	assert.Equal(t, []string{"a", "b"}, l.IDs())
}

func TestTokens_RotateKeepsSlot(t *testing.T) {
	t.Parallel()

	tk := NewTokens([]string{"t1", "t2", "t3"})
	require.True(t, tk.Rotate("t2", "t4"))

	assert.Equal(t, []string{"t1", "t4", "t3"}, tk.Values())
	assert.False(t, tk.Contains("t2"))
	assert.False(t, tk.Rotate("t2", "t5"))
	assert.False(t, tk.Rotate("t1", "t3"))
}

func TestTokens_RevokeOnlyThatSession(t *testing.T) {
	t.Parallel()

	tk := NewTokens([]string{"t1", "t2", "t3"})
	require.True(t, tk.Revoke("t2"))
	assert.False(t, tk.Revoke("t2"))
	assert.Equal(t, []string{"t1", "t3"}, tk.Values())

	assert.True(t, tk.Push("t5"))
	assert.False(t, tk.Push("t1"))
	assert.True(t, tk.Contains("t3"))
}
