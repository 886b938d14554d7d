package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetgo/server/internal/module/auth"
)

type fakeRepo struct {
	usersByEmail map[string]*User
	usersByID    map[uuid.UUID]*User
	created      *User
	updated      *User
	softDeleted  uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		usersByEmail: make(map[string]*User),
		usersByID:    make(map[uuid.UUID]*User),
	}
}

func (r *fakeRepo) add(u *User) *User {
	r.usersByEmail[u.Email] = u
	r.usersByID[u.ID] = u
	return u
}

func (r *fakeRepo) Create(_ context.Context, user *User) error {
	r.created = user
	r.add(user)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	if u, ok := r.usersByID[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := r.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) Update(_ context.Context, user *User) error {
	r.updated = user
	return nil
}

func (r *fakeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.softDeleted = id
	return nil
}

type fakeTokenRepo struct {
	auth.RefreshTokenRepository
	created *auth.RefreshToken
	revoked uuid.UUID
}

func (r *fakeTokenRepo) Create(_ context.Context, token *auth.RefreshToken) error {
	r.created = token
	return nil
}

func (r *fakeTokenRepo) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	r.revoked = userID
	return nil
}

// fakeAvatarStorage records removals.
type fakeAvatarStorage struct {
	removed []string
}

func (f *fakeAvatarStorage) PresignAvatarUpload(context.Context, uuid.UUID, string) (*PresignedUpload, error) {
	return nil, nil
}

func (f *fakeAvatarStorage) RemoveAvatar(_ context.Context, publicURL string) error {
	f.removed = append(f.removed, publicURL)
	return nil
}

func newTestService(repo *fakeRepo, tokens *fakeTokenRepo) *Service {
	jwt := auth.NewJWTManager(&auth.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
	})
	return NewService(repo, tokens, jwt, nil, nil, zap.NewNop())
}

func hashOf(t *testing.T, password string) *string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(hash)
	return &s
}

func TestRegister(t *testing.T) {
	t.Run("creates active user and signs in", func(t *testing.T) {
		repo := newFakeRepo()
		tokens := &fakeTokenRepo{}
		svc := newTestService(repo, tokens)

		pair, user, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "alice@example.com",
			Password: "correct horse",
			Name:     "Alice",
		}, "test-agent", "127.0.0.1")

		require.NoError(t, err)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.True(t, user.IsEmailUser())
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, "Bearer", pair.TokenType)
		require.NotNil(t, tokens.created)
		assert.Equal(t, user.ID, tokens.created.UserID)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := newFakeRepo()
		repo.add(&User{ID: uuid.New(), Email: "alice@example.com"})
		svc := newTestService(repo, &fakeTokenRepo{})

		_, _, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "alice@example.com",
			Password: "correct horse",
		}, "", "")

		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), &fakeTokenRepo{})

		_, _, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "bob@example.com",
			Password: "short",
		}, "", "")

		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestLogin(t *testing.T) {
	t.Run("succeeds with correct password", func(t *testing.T) {
		repo := newFakeRepo()
		repo.add(&User{
			ID:           uuid.New(),
			Email:        "alice@example.com",
			PasswordHash: hashOf(t, "correct horse"),
			Status:       UserStatusActive,
		})
		svc := newTestService(repo, &fakeTokenRepo{})

		pair, user, err := svc.Login(context.Background(), "alice@example.com", "correct horse", "", "")

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		repo := newFakeRepo()
		repo.add(&User{
			ID:           uuid.New(),
			Email:        "alice@example.com",
			PasswordHash: hashOf(t, "correct horse"),
			Status:       UserStatusActive,
		})
		svc := newTestService(repo, &fakeTokenRepo{})

		_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong", "", "")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects unknown email without leaking existence", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), &fakeTokenRepo{})

		_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever", "", "")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects deleted account", func(t *testing.T) {
		repo := newFakeRepo()
		repo.add(&User{
			ID:           uuid.New(),
			Email:        "gone@example.com",
			PasswordHash: hashOf(t, "correct horse"),
			Status:       UserStatusDeleted,
		})
		svc := newTestService(repo, &fakeTokenRepo{})

		_, _, err := svc.Login(context.Background(), "gone@example.com", "correct horse", "", "")

		assert.ErrorIs(t, err, ErrAccountDeleted)
	})

	t.Run("rejects password login for oauth user", func(t *testing.T) {
		provider := "kakao"
		repo := newFakeRepo()
		repo.add(&User{
			ID:            uuid.New(),
			Email:         "kakao@example.com",
			OAuthProvider: &provider,
			Status:        UserStatusActive,
		})
		svc := newTestService(repo, &fakeTokenRepo{})

		_, _, err := svc.Login(context.Background(), "kakao@example.com", "anything", "", "")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("updates the hash", func(t *testing.T) {
		repo := newFakeRepo()
		u := repo.add(&User{
			ID:           uuid.New(),
			Email:        "alice@example.com",
			PasswordHash: hashOf(t, "old password"),
			Status:       UserStatusActive,
		})
		svc := newTestService(repo, &fakeTokenRepo{})

		err := svc.ChangePassword(context.Background(), u.ID, "old password", "new password")

		require.NoError(t, err)
		require.NotNil(t, repo.updated)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*repo.updated.PasswordHash), []byte("new password")))
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		repo := newFakeRepo()
		u := repo.add(&User{
			ID:           uuid.New(),
			Email:        "alice@example.com",
			PasswordHash: hashOf(t, "old password"),
		})
		svc := newTestService(repo, &fakeTokenRepo{})

		err := svc.ChangePassword(context.Background(), u.ID, "not it", "new password")

		assert.ErrorIs(t, err, ErrIncorrectPassword)
	})

	t.Run("rejects oauth-only account", func(t *testing.T) {
		provider := "kakao"
		repo := newFakeRepo()
		u := repo.add(&User{
			ID:            uuid.New(),
			Email:         "kakao@example.com",
			OAuthProvider: &provider,
		})
		svc := newTestService(repo, &fakeTokenRepo{})

		err := svc.ChangePassword(context.Background(), u.ID, "", "new password")

		assert.ErrorIs(t, err, ErrNotEmailUser)
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("email user must confirm password", func(t *testing.T) {
		repo := newFakeRepo()
		u := repo.add(&User{
			ID:           uuid.New(),
			Email:        "alice@example.com",
			PasswordHash: hashOf(t, "correct horse"),
		})
		svc := newTestService(repo, &fakeTokenRepo{})

		err := svc.DeleteAccount(context.Background(), u.ID, "")
		assert.ErrorIs(t, err, ErrPasswordRequired)

		err = svc.DeleteAccount(context.Background(), u.ID, "wrong")
		assert.ErrorIs(t, err, ErrIncorrectPassword)
	})

	t.Run("revokes tokens and soft deletes", func(t *testing.T) {
		repo := newFakeRepo()
		u := repo.add(&User{
			ID:           uuid.New(),
			Email:        "alice@example.com",
			PasswordHash: hashOf(t, "correct horse"),
		})
		tokens := &fakeTokenRepo{}
		svc := newTestService(repo, tokens)

		err := svc.DeleteAccount(context.Background(), u.ID, "correct horse")

		require.NoError(t, err)
		assert.Equal(t, u.ID, tokens.revoked)
		assert.Equal(t, u.ID, repo.softDeleted)
	})

	t.Run("oauth user needs no password", func(t *testing.T) {
		provider := "kakao"
		repo := newFakeRepo()
		u := repo.add(&User{
			ID:            uuid.New(),
			Email:         "kakao@example.com",
			OAuthProvider: &provider,
		})
		svc := newTestService(repo, &fakeTokenRepo{})

		err := svc.DeleteAccount(context.Background(), u.ID, "")

		assert.NoError(t, err)
	})
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeRepo()
	u := repo.add(&User{ID: uuid.New(), Email: "alice@example.com", Name: "Alice"})
	svc := newTestService(repo, &fakeTokenRepo{})

	name := "Alice Kim"
	avatar := "https://cdn.example.com/avatars/x.png"
	updated, err := svc.UpdateProfile(context.Background(), u.ID, &UpdateProfileRequest{
		Name:      &name,
		AvatarURL: &avatar,
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice Kim", updated.Name)
	assert.Equal(t, avatar, updated.AvatarURL)
}

func TestUpdateProfileRemovesReplacedAvatar(t *testing.T) {
	old := "https://cdn.example.com/avatars/u/old.png"
	repo := newFakeRepo()
	u := repo.add(&User{ID: uuid.New(), Email: "alice@example.com", AvatarURL: old})
	avatars := &fakeAvatarStorage{}
	svc := newTestService(repo, &fakeTokenRepo{})
	svc.avatars = avatars

	replacement := "https://cdn.example.com/avatars/u/new.png"
	_, err := svc.UpdateProfile(context.Background(), u.ID, &UpdateProfileRequest{AvatarURL: &replacement})

	require.NoError(t, err)
	assert.Equal(t, []string{old}, avatars.removed)

	t.Run("unchanged avatar is kept", func(t *testing.T) {
		name := "Alice Kim"
		_, err := svc.UpdateProfile(context.Background(), u.ID, &UpdateProfileRequest{Name: &name})
		require.NoError(t, err)
		assert.Len(t, avatars.removed, 1)
	})
}
