package auth

import (
	"testing"
	"time"

	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-with-enough-length",
		AccessTokenExpiration: expiration,
		Issuer:                "boothledger",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	t.Run("round trips an owner identity", func(t *testing.T) {
		svc := newTestService(time.Hour)
		actor := shared.Actor{UID: "owner-1", Email: "owner@example.com"}

		token, expiresAt, err := svc.GenerateToken(actor)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "owner-1", claims.UID)
		assert.Equal(t, "owner@example.com", claims.Email)
		assert.Equal(t, actor, claims.Actor())
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		svc := newTestService(-time.Minute)

		token, _, err := svc.GenerateToken(shared.Actor{UID: "owner-1"})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		svc := newTestService(time.Hour)
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-secret-key",
			AccessTokenExpiration: time.Hour,
			Issuer:                "boothledger",
		})

		token, _, err := other.GenerateToken(shared.Actor{UID: "owner-1"})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := newTestService(time.Hour)
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a token without a uid", func(t *testing.T) {
		svc := newTestService(time.Hour)

		token, _, err := svc.GenerateToken(shared.Actor{})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrMissingUID)
	})
}
