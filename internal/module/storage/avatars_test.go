package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/meetgo/server/internal/module/user"
)

func TestAvatarExtensions(t *testing.T) {
	tests := []struct {
		contentType string
		ext         string
		supported   bool
	}{
		{"image/jpeg", "jpg", true},
		{"image/png", "png", true},
		{"image/webp", "webp", true},
		{"image/gif", "gif", true},
		{"image/svg+xml", "", false},
		{"application/pdf", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			ext, ok := avatarExtensions[tt.contentType]
			assert.Equal(t, tt.supported, ok)
			if tt.supported {
				assert.Equal(t, tt.ext, ext)
			}
		})
	}
}

func TestPresignAvatarUpload_UnsupportedType(t *testing.T) {
	s := NewAvatarService(&Client{}, nil)

	_, err := s.PresignAvatarUpload(context.Background(), uuid.New(), "application/pdf")

	assert.ErrorIs(t, err, user.ErrUnsupportedImageType)
}

func TestAvatarKeyFromURL(t *testing.T) {
	base := "https://cdn.example.com/"

	tests := []struct {
		name string
		url  string
		key  string
	}{
		{"own avatar", "https://cdn.example.com/avatars/u/x.png", "avatars/u/x.png"},
		{"foreign host", "https://k.kakaocdn.net/dn/profile.jpg", ""},
		{"own bucket, not an avatar", "https://cdn.example.com/exports/dump.csv", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, avatarKeyFromURL(tt.url, base))
		})
	}
}

func TestClientPublicObjectURL(t *testing.T) {
	c := &Client{publicURL: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/avatars/a/b.png", c.PublicObjectURL("avatars/a/b.png"))
}
