package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		name string
		xp   int64
		want int
	}{
		{name: "zero xp", xp: 0, want: 1},
		{name: "just below level 2", xp: 99, want: 1},
		{name: "level 2 threshold", xp: 100, want: 2},
		{name: "just below level 3", xp: 299, want: 2},
		{name: "level 3 threshold", xp: 300, want: 3},
		{name: "level 4 threshold", xp: 600, want: 4},
		{name: "negative xp clamps to 1", xp: -50, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelForXP(tt.xp))
		})
	}
}

func TestXPForNextLevel(t *testing.T) {
	assert.Equal(t, int64(100), XPForNextLevel(0))
	assert.Equal(t, int64(300), XPForNextLevel(100))
	assert.Equal(t, int64(300), XPForNextLevel(299))
	assert.Equal(t, int64(600), XPForNextLevel(300))
}
