package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	t.Parallel()

	t.Run("satisfiable", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			header     string
			size       int64
			start, end int64
		}{
			{"bytes=10-19", 100, 10, 19},
			{"bytes=0-", 100, 0, 99},
			{"bytes=90-", 100, 90, 99},
			{"bytes=-10", 100, 90, 99},
			{"bytes=-200", 100, 0, 99},
			{"bytes=50-200", 100, 50, 99},
			{"bytes=0-0", 100, 0, 0},
		}
		for _, tt := range tests {
			t.Run(tt.header, func(t *testing.T) {
				rng, valid := parseRange(tt.header, tt.size)
				require.True(t, valid)
				require.NotNil(t, rng)
				assert.Equal(t, tt.start, rng.start)
				assert.Equal(t, tt.end, rng.end)
			})
		}
	})

	t.Run("ignored", func(t *testing.T) {
		t.Parallel()

		headers := []string{
			"",
			"10-19",
			"bytes=abc-def",
			"bytes=10",
			"bytes=-0",
			"bytes=0-10,20-30",
			"items=0-10",
		}
		for _, header := range headers {
			t.Run(header, func(t *testing.T) {
				rng, valid := parseRange(header, 100)
				assert.Nil(t, rng)
				assert.False(t, valid)
			})
		}
	})

	t.Run("unsatisfiable", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			header string
			size   int64
		}{
			{"bytes=100-", 100},
			{"bytes=150-200", 100},
			{"bytes=20-10", 100},
			{"bytes=-5", 0},
		}
		for _, tt := range tests {
			t.Run(tt.header, func(t *testing.T) {
				rng, valid := parseRange(tt.header, tt.size)
				assert.Nil(t, rng)
				assert.True(t, valid)
			})
		}
	})
}
