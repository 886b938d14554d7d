package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meetgo/server/internal/module/auth"
	"github.com/meetgo/server/internal/shared/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair is re-exported from auth for convenience.
type TokenPair = auth.TokenPair

// Service provides user management operations.
type Service struct {
	repo      Repository
	tokenRepo auth.RefreshTokenRepository
	jwt       *auth.JWTManager
	avatars   AvatarStorage
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewService creates a new user service. The avatar storage and metrics
// are optional.
func NewService(
	repo Repository,
	tokenRepo auth.RefreshTokenRepository,
	jwt *auth.JWTManager,
	avatars AvatarStorage,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		tokenRepo: tokenRepo,
		jwt:       jwt,
		avatars:   avatars,
		metrics:   m,
		logger:    logger,
	}
}

func (s *Service) recordAuthEvent(event string) {
	if s.metrics != nil {
		s.metrics.RecordAuthEvent(event, "email")
	}
}

// --- Registration ---

// Register creates a new user with email and password. The account is
// active immediately and a token pair is returned so the client is
// signed in right after registering.
func (s *Service) Register(ctx context.Context, req *RegisterRequest, userAgent, ipAddress string) (*TokenPair, *User, error) {
	// Check if email already exists
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return nil, nil, ErrEmailAlreadyExists
	}
	if err != nil && err != ErrUserNotFound {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}

	// Validate password
	if len(req.Password) < 8 {
		return nil, nil, ErrPasswordTooShort
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}
	hashStr := string(hash)

	user := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: &hashStr,
		Status:       UserStatusActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, nil, err
	}

	s.recordAuthEvent("login_success")
	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}

	return tokens, user, nil
}

// --- Login ---

// Login authenticates a user with email and password.
func (s *Service) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*TokenPair, *User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.recordAuthEvent("login_failed")
		return nil, nil, ErrInvalidCredentials
	}

	if user.Status == UserStatusDeleted {
		return nil, nil, ErrAccountDeleted
	}

	// Verify password
	if user.PasswordHash == nil {
		s.recordAuthEvent("login_failed")
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		s.recordAuthEvent("login_failed")
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokenPair(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, nil, err
	}

	s.recordAuthEvent("login_success")
	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}

	return tokens, user, nil
}

// --- Password Management ---

// ChangePassword changes a user's password.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.PasswordHash == nil {
		return ErrNotEmailUser
	}

	// Verify current password
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrIncorrectPassword
	}

	// Hash new password
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	hashStr := string(hash)

	user.PasswordHash = &hashStr
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// --- User Operations ---

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile updates a user's profile. When the avatar changes, the
// replaced object is deleted best effort after the profile write.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	previousAvatar := user.AvatarURL

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if s.avatars != nil && previousAvatar != "" && previousAvatar != user.AvatarURL {
		if err := s.avatars.RemoveAvatar(ctx, previousAvatar); err != nil {
			s.logger.Warn("failed to remove replaced avatar",
				zap.String("user_id", userID.String()),
				zap.Error(err))
		}
	}

	return user, nil
}

// DeleteAccount deletes a user's account.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	// For email users, verify password
	if user.IsEmailUser() {
		if password == "" {
			return ErrPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
			return ErrIncorrectPassword
		}
	}

	// Revoke all tokens
	if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		s.logger.Error("failed to revoke tokens", zap.Error(err))
	}

	// Soft delete
	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return nil
}

// --- Helpers ---

func (s *Service) generateTokenPair(ctx context.Context, user *User, userAgent, ipAddress string) (*TokenPair, error) {
	// Create auth.User for JWT generation
	authUser := &auth.User{
		ID:    user.ID,
		Email: user.Email,
	}

	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(authUser)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	rawRefreshToken, tokenHash, refreshExpiresAt, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	// Store refresh token
	refreshTokenRecord := &auth.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: refreshExpiresAt,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	if err := s.tokenRepo.Create(ctx, refreshTokenRecord); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: rawRefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwt.GetAccessTokenExpiry().Seconds()),
		ExpiresAt:    expiresAt,
	}, nil
}
