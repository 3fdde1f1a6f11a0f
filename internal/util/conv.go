package util

import (
	"strconv"
)

// MustParseUint returns 0 on parse failure
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseIntDefault returns def on empty or bad input
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Paging clamps page and limit
func Paging(pageStr, limitStr string) (page, limit int) {
	page = ParseIntDefault(pageStr, DefaultPage)
	if page < 1 {
		page = DefaultPage
	}
	limit = ParseIntDefault(limitStr, DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
