package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page, size int
		offset     int
		limit      int
	}{
		{name: "first page", page: 1, size: 5, offset: 0, limit: 5},
		{name: "third page", page: 3, size: 5, offset: 10, limit: 5},
		{name: "page below one", page: 0, size: 5, offset: 0, limit: 5},
		{name: "unlimited", page: 4, size: -1, offset: 0, limit: 0},
	}
	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.offset, offset, tt.name)
		assert.Equal(t, tt.limit, limit, tt.name)
	}
}

func TestBounded(t *testing.T) {
	t.Parallel()

	offset, limit := Bounded(2, 500)
	assert.Equal(t, DefaultPageSize, offset)
	assert.Equal(t, DefaultPageSize, limit)

	_, limit = Bounded(1, 0)
	assert.Equal(t, DefaultPageSize, limit)
}

func TestParseIntDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("abc", 7))
	assert.Equal(t, -1, ParseIntDefault("-1", 7))
}
