package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hyphen dropped", "1234-A", "1234A"},
		{"already canonical", "1234A", "1234A"},
		{"underscore and space dropped", "12_34 A", "1234A"},
		{"case preserved", "1234-a", "1234a"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeMatchesBothSides(t *testing.T) {
	// catalog spelling vs judge spelling must land on the same key
	assert.Equal(t, Normalize("1234-A"), Normalize("1234A"))
}
