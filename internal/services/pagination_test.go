package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestNormalizePagination(t *testing.T) {
	testCases := []struct {
		name          string
		page, limit   *int
		expectedPage  int
		expectedLimit int
	}{
		{"absent uses defaults", nil, nil, 1, 10},
		{"explicit values", intPtr(3), intPtr(25), 3, 25},
		{"zero clamps to one", intPtr(0), intPtr(0), 1, 1},
		{"negative clamps to one", intPtr(-4), intPtr(-1), 1, 1},
		{"limit is capped", intPtr(1), intPtr(5000), 1, MaxPageSize},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := normalizePagination(tt.page, tt.limit)
			assert.Equal(t, tt.expectedPage, page)
			assert.Equal(t, tt.expectedLimit, limit)
		})
	}
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, pageCount(0, 10))
	assert.Equal(t, 1, pageCount(1, 10))
	assert.Equal(t, 1, pageCount(10, 10))
	assert.Equal(t, 3, pageCount(25, 10))
	assert.Equal(t, 25, pageCount(25, 1))
}
