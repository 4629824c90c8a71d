package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_likePattern(t *testing.T) {
	tcases := []struct {
		name     string
		q        string
		expected string
	}{
		{
			name:     "empty query matches everything",
			q:        "",
			expected: "%%",
		},
		{
			name:     "plain query is wrapped",
			q:        "jazz",
			expected: "%jazz%",
		},
		{
			name:     "percent is matched literally",
			q:        "100%",
			expected: `%100\%%`,
		},
		{
			name:     "underscore is matched literally",
			q:        "room_1",
			expected: `%room\_1%`,
		},
		{
			name:     "backslash is escaped before the wildcards",
			q:        `a\%b`,
			expected: `%a\\\%b%`,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, likePattern(tc.q))
		})
	}
}
