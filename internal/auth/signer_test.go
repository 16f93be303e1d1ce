package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/uilab/internal/auth"
)

func TestSignVerify(t *testing.T) {
	const secret = "test-secret"

	t.Run("round trip", func(t *testing.T) {
		payload := "eyJlbWFpbCI6ImFAYi5jIn0="
		sig := auth.Sign(payload, secret)
		assert.NotEmpty(t, sig)
		assert.True(t, auth.Verify(payload, sig, secret))
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, auth.Sign("payload", secret), auth.Sign("payload", secret))
	})

	t.Run("tampered payload fails", func(t *testing.T) {
		sig := auth.Sign("payload", secret)
		assert.False(t, auth.Verify("payload2", sig, secret))
	})

	t.Run("tampered signature fails", func(t *testing.T) {
		sig := auth.Sign("payload", secret)
		assert.False(t, auth.Verify("payload", sig+"x", secret))
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		sig := auth.Sign("payload", secret)
		assert.False(t, auth.Verify("payload", sig, "other-secret"))
	})
}
