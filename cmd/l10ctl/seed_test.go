package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextMonday(t *testing.T) {
	tests := map[string]struct {
		now  time.Time
		want time.Time
	}{
		"wednesday":      {time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC), time.Date(2026, 5, 25, 9, 0, 0, 0, time.UTC)},
		"sunday night":   {time.Date(2026, 5, 24, 23, 59, 0, 0, time.UTC), time.Date(2026, 5, 25, 9, 0, 0, 0, time.UTC)},
		"monday morning": {time.Date(2026, 5, 25, 8, 0, 0, 0, time.UTC), time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextMonday(tt.now))
		})
	}
}
