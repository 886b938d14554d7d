package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserStatusIsValid(t *testing.T) {
	tests := []struct {
		status UserStatus
		valid  bool
	}{
		{UserStatusActive, true},
		{UserStatusDeleted, true},
		{UserStatus("suspended"), false},
		{UserStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
		})
	}
}

func TestUserAccountKind(t *testing.T) {
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	provider := "kakao"

	t.Run("email user", func(t *testing.T) {
		u := &User{PasswordHash: &hash}
		assert.True(t, u.IsEmailUser())
		assert.False(t, u.IsOAuthUser())
	})

	t.Run("oauth user", func(t *testing.T) {
		u := &User{OAuthProvider: &provider}
		assert.False(t, u.IsEmailUser())
		assert.True(t, u.IsOAuthUser())
	})

	t.Run("empty hash is not email user", func(t *testing.T) {
		empty := ""
		u := &User{PasswordHash: &empty}
		assert.False(t, u.IsEmailUser())
	})
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{"uses name when set", User{Name: "Jiwoo", Email: "jiwoo@example.com"}, "Jiwoo"},
		{"falls back to email local part", User{Email: "jiwoo@example.com"}, "jiwoo"},
		{"email without at sign", User{Email: "jiwoo"}, "jiwoo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.DisplayName())
		})
	}
}

func TestUserToResponse(t *testing.T) {
	t.Run("email user", func(t *testing.T) {
		u := &User{Email: "a@example.com", Name: "A", Status: UserStatusActive}
		resp := u.ToResponse()
		assert.Equal(t, "email", resp.Provider)
		assert.Equal(t, UserStatusActive, resp.Status)
	})

	t.Run("oauth user", func(t *testing.T) {
		provider := "kakao"
		u := &User{Email: "b@example.com", OAuthProvider: &provider}
		resp := u.ToResponse()
		assert.Equal(t, "kakao", resp.Provider)
	})
}
