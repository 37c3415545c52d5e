package util

import "strconv"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate returns the offset and limit of a 1-based page.
// A non-positive size selects everything and yields limit 0.
func Calculate(page, size int) (offset, limit int) {
	if size <= 0 {
		return 0, 0
	}
	if page < 1 {
		page = 1
	}
	return (page - 1) * size, size
}

// Bounded is Calculate with size clamped to 1..MaxPageSize.
func Bounded(page, size int) (offset, limit int) {
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Calculate(page, size)
}
