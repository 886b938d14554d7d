package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/meetgo/server/internal/module/auth/oauth"
	"github.com/meetgo/server/internal/shared/metrics"
)

// Service provides authentication operations.
type Service struct {
	userRepo   UserRepository
	tokenRepo  RefreshTokenRepository
	jwt        *JWTManager
	oauth      *oauth.Registry
	stateStore StateStore
	metrics    *metrics.Metrics
}

// StateStore defines the interface for OAuth state management.
type StateStore interface {
	Set(ctx context.Context, state string, data string) error
	Get(ctx context.Context, state string) (string, error)
	Delete(ctx context.Context, state string) error
}

// ServiceConfig holds service configuration. Metrics may be nil.
type ServiceConfig struct {
	JWTConfig *JWTConfig
	Metrics   *metrics.Metrics
}

// NewService creates a new auth service.
func NewService(
	userRepo UserRepository,
	tokenRepo RefreshTokenRepository,
	oauthRegistry *oauth.Registry,
	stateStore StateStore,
	config *ServiceConfig,
) *Service {
	return &Service{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwt:        NewJWTManager(config.JWTConfig),
		oauth:      oauthRegistry,
		stateStore: stateStore,
		metrics:    config.Metrics,
	}
}

func (s *Service) recordAuthEvent(event, provider string) {
	if s.metrics != nil {
		s.metrics.RecordAuthEvent(event, provider)
	}
}

// JWTManager exposes the underlying JWT manager so other modules can
// issue tokens through the same configuration.
func (s *Service) JWTManager() *JWTManager {
	return s.jwt
}

// --- OAuth Operations ---

// InitiateLogin starts the OAuth login flow.
func (s *Service) InitiateLogin(ctx context.Context, provider OAuthProvider) (*LoginResponse, error) {
	if !provider.IsValid() {
		return nil, ErrInvalidOAuthProvider
	}

	oauthProvider, err := s.oauth.Get(provider.String())
	if err != nil {
		return nil, ErrInvalidOAuthProvider
	}

	// Generate state token
	state, err := generateRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	// Store state for verification
	if err := s.stateStore.Set(ctx, state, provider.String()); err != nil {
		return nil, fmt.Errorf("store state: %w", err)
	}

	authURL := oauthProvider.GetAuthURL(state)

	return &LoginResponse{
		AuthURL: authURL,
		State:   state,
	}, nil
}

// CompleteLogin completes the OAuth login flow.
func (s *Service) CompleteLogin(ctx context.Context, req *CallbackRequest, userAgent, ipAddress string) (*TokenPair, *User, error) {
	// Verify state
	storedProvider, err := s.stateStore.Get(ctx, req.State)
	if err != nil {
		return nil, nil, ErrInvalidOAuthState
	}
	defer s.stateStore.Delete(ctx, req.State)

	if storedProvider != req.Provider.String() {
		return nil, nil, ErrInvalidOAuthState
	}

	// Get OAuth provider
	oauthProvider, err := s.oauth.Get(req.Provider.String())
	if err != nil {
		return nil, nil, ErrInvalidOAuthProvider
	}

	// Exchange code for token
	token, err := oauthProvider.Exchange(ctx, req.Code)
	if err != nil {
		s.recordAuthEvent("login_failed", req.Provider.String())
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidOAuthCode, err)
	}

	// Get user info from provider
	userInfo, err := oauthProvider.GetUserInfo(ctx, token)
	if err != nil {
		s.recordAuthEvent("login_failed", req.Provider.String())
		return nil, nil, fmt.Errorf("%w: %v", ErrOAuthFailed, err)
	}

	// Find or create user
	user, err := s.findOrCreateUser(ctx, req.Provider, userInfo)
	if err != nil {
		return nil, nil, fmt.Errorf("find or create user: %w", err)
	}

	// Generate tokens
	tokenPair, err := s.generateTokenPair(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.recordAuthEvent("login_success", req.Provider.String())
	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}

	return tokenPair, user, nil
}

// findOrCreateUser finds an existing user or creates a new one.
func (s *Service) findOrCreateUser(ctx context.Context, provider OAuthProvider, info *oauth.UserInfo) (*User, error) {
	// Try to find existing user by OAuth ID
	user, err := s.userRepo.GetByOAuth(ctx, provider, info.ID)
	if err == nil {
		// Update user info if changed
		updated := false
		if info.Email != "" && user.Email != info.Email {
			user.Email = info.Email
			updated = true
		}
		if info.Name != "" && user.Name != info.Name {
			user.Name = info.Name
			updated = true
		}
		if info.AvatarURL != "" && user.AvatarURL != info.AvatarURL {
			user.AvatarURL = info.AvatarURL
			updated = true
		}
		if updated {
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("update user: %w", err)
			}
		}
		return user, nil
	}

	if err != ErrUserNotFound {
		return nil, fmt.Errorf("get user: %w", err)
	}

	// Create new user
	providerStr := provider.String()
	user = &User{
		ID:            uuid.New(),
		Email:         info.Email,
		Name:          info.Name,
		AvatarURL:     info.AvatarURL,
		OAuthProvider: &providerStr,
		OAuthID:       &info.ID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// --- Token Operations ---

// RefreshTokens refreshes the access token using a refresh token.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string, userAgent, ipAddress string) (*TokenPair, error) {
	// Hash the token to look it up
	tokenHash := s.jwt.HashRefreshToken(refreshToken)

	// Find the refresh token
	storedToken, err := s.tokenRepo.GetByHash(ctx, tokenHash)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Validate token
	if !storedToken.IsValid() {
		if storedToken.IsExpired() {
			return nil, ErrExpiredToken
		}
		return nil, ErrRevokedToken
	}

	// Revoke old token
	if err := s.tokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, fmt.Errorf("revoke old token: %w", err)
	}

	// Get user
	user, err := s.userRepo.GetByID(ctx, storedToken.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	// Generate new token pair
	pair, err := s.generateTokenPair(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	s.recordAuthEvent("token_refresh", "")
	return pair, nil
}

// Logout revokes all refresh tokens for the user.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}

	s.recordAuthEvent("logout", "")
	if s.metrics != nil {
		s.metrics.ActiveSessions.Dec()
	}
	return nil
}

// generateTokenPair generates a new access/refresh token pair.
func (s *Service) generateTokenPair(ctx context.Context, user *User, userAgent, ipAddress string) (*TokenPair, error) {
	// Generate access token
	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	// Generate refresh token
	rawRefreshToken, tokenHash, refreshExpiresAt, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	// Store refresh token
	refreshTokenRecord := &RefreshToken{
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

// ValidateAccessToken validates an access token and returns the claims.
func (s *Service) ValidateAccessToken(token string) (*Claims, error) {
	return s.jwt.ValidateAccessToken(token)
}

// --- User Operations ---

// GetUser returns user by ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// --- Helpers ---

// generateRandomString generates a cryptographically secure random string.
func generateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
