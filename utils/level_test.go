package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"00 NIVEL 01", 1},
		{"NIVEL 12", 12},
		{"Subterraneo 2", 2},
		{"3", 3},
		{"  NIVEL 04  ", 4},
		{"Sin nivel", 0},
		{"", 0},
		{"NIVEL 2A", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.text), "text %q", tt.text)
	}
}
