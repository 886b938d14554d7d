package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meetgo/server/internal/module/user"
	"github.com/meetgo/server/internal/shared/metrics"
)

// avatarUploadExpiry is how long a presigned avatar upload URL stays valid.
const avatarUploadExpiry = 15 * time.Minute

var avatarExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// AvatarService issues presigned upload URLs for profile images.
type AvatarService struct {
	client  *Client
	metrics *metrics.Metrics
}

// NewAvatarService creates a new avatar service. Metrics may be nil.
func NewAvatarService(client *Client, m *metrics.Metrics) *AvatarService {
	return &AvatarService{client: client, metrics: m}
}

// PresignAvatarUpload returns a presigned PUT URL for a new avatar. Keys
// include a random component so uploads never overwrite each other and
// stale CDN caches do not serve the previous image.
func (s *AvatarService) PresignAvatarUpload(ctx context.Context, userID uuid.UUID, contentType string) (*user.PresignedUpload, error) {
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", user.ErrUnsupportedImageType, contentType)
	}

	key := fmt.Sprintf("avatars/%s/%s.%s", userID, uuid.NewString(), ext)

	presigned, err := s.client.PresignUpload(ctx, key, contentType, avatarUploadExpiry)
	if err != nil {
		s.record("presign_upload", "error")
		return nil, err
	}
	s.record("presign_upload", "ok")

	return &user.PresignedUpload{
		UploadURL: presigned.URL,
		PublicURL: s.client.PublicObjectURL(key),
		ExpiresIn: int64(avatarUploadExpiry.Seconds()),
	}, nil
}

// RemoveAvatar deletes a previously uploaded avatar by its public URL.
// URLs outside the avatar key space, such as OAuth provider images, are
// ignored.
func (s *AvatarService) RemoveAvatar(ctx context.Context, publicURL string) error {
	key := avatarKeyFromURL(publicURL, s.client.PublicObjectURL(""))
	if key == "" {
		return nil
	}

	if err := s.client.DeleteObject(ctx, key); err != nil {
		s.record("delete", "error")
		return err
	}
	s.record("delete", "ok")
	return nil
}

// avatarKeyFromURL extracts the object key from a public URL. It returns
// "" unless the URL is under the given base and names an avatar key.
func avatarKeyFromURL(publicURL, base string) string {
	key, ok := strings.CutPrefix(publicURL, base)
	if !ok || !strings.HasPrefix(key, "avatars/") {
		return ""
	}
	return key
}

func (s *AvatarService) record(operation, status string) {
	if s.metrics != nil {
		s.metrics.RecordStorageRequest(operation, status)
	}
}
