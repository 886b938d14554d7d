package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOAuthProvider(t *testing.T) {
	t.Run("String returns correct value", func(t *testing.T) {
		assert.Equal(t, "kakao", OAuthProviderKakao.String())
	})

	t.Run("IsValid returns true for valid providers", func(t *testing.T) {
		assert.True(t, OAuthProviderKakao.IsValid())
	})

	t.Run("IsValid returns false for invalid providers", func(t *testing.T) {
		assert.False(t, OAuthProvider("invalid").IsValid())
		assert.False(t, OAuthProvider("").IsValid())
	})
}

func TestUserTableName(t *testing.T) {
	user := User{}
	assert.Equal(t, "users", user.TableName())
}

func TestRefreshToken(t *testing.T) {
	t.Run("TableName returns correct value", func(t *testing.T) {
		token := RefreshToken{}
		assert.Equal(t, "refresh_tokens", token.TableName())
	})

	t.Run("IsExpired returns true for expired token", func(t *testing.T) {
		token := &RefreshToken{
			ExpiresAt: time.Now().Add(-time.Hour),
		}
		assert.True(t, token.IsExpired())
	})

	t.Run("IsExpired returns false for valid token", func(t *testing.T) {
		token := &RefreshToken{
			ExpiresAt: time.Now().Add(time.Hour),
		}
		assert.False(t, token.IsExpired())
	})

	t.Run("IsRevoked returns true for revoked token", func(t *testing.T) {
		now := time.Now()
		token := &RefreshToken{
			RevokedAt: &now,
		}
		assert.True(t, token.IsRevoked())
	})

	t.Run("IsRevoked returns false for non-revoked token", func(t *testing.T) {
		token := &RefreshToken{
			RevokedAt: nil,
		}
		assert.False(t, token.IsRevoked())
	})

	t.Run("IsValid returns true for valid non-expired non-revoked token", func(t *testing.T) {
		token := &RefreshToken{
			ExpiresAt: time.Now().Add(time.Hour),
			RevokedAt: nil,
		}
		assert.True(t, token.IsValid())
	})

	t.Run("IsValid returns false for expired token", func(t *testing.T) {
		token := &RefreshToken{
			ExpiresAt: time.Now().Add(-time.Hour),
			RevokedAt: nil,
		}
		assert.False(t, token.IsValid())
	})

	t.Run("IsValid returns false for revoked token", func(t *testing.T) {
		now := time.Now()
		token := &RefreshToken{
			ExpiresAt: time.Now().Add(time.Hour),
			RevokedAt: &now,
		}
		assert.False(t, token.IsValid())
	})
}

func TestUserToResponse(t *testing.T) {
	t.Run("oauth user", func(t *testing.T) {
		now := time.Now()
		userID := uuid.New()
		provider := "kakao"
		user := &User{
			ID:            userID,
			Email:         "test@example.com",
			Name:          "Test User",
			AvatarURL:     "https://example.com/avatar.png",
			OAuthProvider: &provider,
			CreatedAt:     now,
		}

		resp := user.ToResponse()

		assert.Equal(t, userID, resp.ID)
		assert.Equal(t, "test@example.com", resp.Email)
		assert.Equal(t, "Test User", resp.Name)
		assert.Equal(t, "https://example.com/avatar.png", resp.AvatarURL)
		assert.Equal(t, "kakao", resp.Provider)
		assert.Equal(t, now, resp.CreatedAt)
	})

	t.Run("email user", func(t *testing.T) {
		user := &User{
			ID:    uuid.New(),
			Email: "test@example.com",
			Name:  "Test User",
		}

		resp := user.ToResponse()
		assert.Equal(t, "email", resp.Provider)
	})
}
