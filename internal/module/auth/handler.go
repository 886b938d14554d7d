package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	service  *Service
	limiter  *RateLimiter
	loginRPM int
}

// NewHandler creates a new auth handler. The rate limiter is optional;
// when nil, login endpoints are not rate limited.
func NewHandler(service *Service, limiter *RateLimiter, loginRPM int) *Handler {
	return &Handler{
		service:  service,
		limiter:  limiter,
		loginRPM: loginRPM,
	}
}

// RegisterRoutes registers auth routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.loginRateLimit(), h.InitiateLogin)
		auth.POST("/callback", h.loginRateLimit(), h.Callback)
		auth.POST("/refresh", h.RefreshToken)
	}
}

// RegisterProtectedRoutes registers auth routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/auth/logout", h.Logout)
}

// --- Auth Endpoints ---

// InitiateLogin starts the OAuth login flow.
//
//	@Summary		Start OAuth login
//	@Description	Initiate an OAuth login flow and return the provider's authorization URL
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Login request"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	map[string]string
//	@Router			/auth/login [post]
func (h *Handler) InitiateLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.InitiateLogin(c.Request.Context(), req.Provider)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Callback handles the OAuth callback.
//
//	@Summary		Complete OAuth login
//	@Description	Exchange the OAuth authorization code for a token pair
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CallbackRequest	true	"Callback request"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]string
//	@Router			/auth/callback [post]
func (h *Handler) Callback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userAgent := c.Request.UserAgent()
	ipAddress := c.ClientIP()

	tokens, user, err := h.service.CompleteLogin(c.Request.Context(), &req, userAgent, ipAddress)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
		"user":   user.ToResponse(),
	})
}

// RefreshToken refreshes the access token.
//
//	@Summary		Refresh tokens
//	@Description	Exchange a valid refresh token for a new token pair
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RefreshRequest	true	"Refresh request"
//	@Success		200		{object}	TokenPair
//	@Failure		401		{object}	map[string]string
//	@Router			/auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userAgent := c.Request.UserAgent()
	ipAddress := c.ClientIP()

	tokens, err := h.service.RefreshTokens(c.Request.Context(), req.RefreshToken, userAgent, ipAddress)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout revokes all tokens for the user.
//
//	@Summary		Logout
//	@Description	Revoke all refresh tokens for the current user
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	map[string]string
//	@Failure		401	{object}	map[string]string
//	@Router			/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID.(uuid.UUID)); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// --- Middleware ---

// AuthMiddleware returns a middleware that validates JWT tokens.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		token := parts[1]
		claims, err := h.service.ValidateAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// Set user info in context
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// loginRateLimit returns a middleware that limits login attempts per client IP.
func (h *Handler) loginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.limiter == nil || h.loginRPM <= 0 {
			c.Next()
			return
		}

		result, err := h.limiter.CheckRPM(c.Request.Context(), "login:"+c.ClientIP(), h.loginRPM)
		if err != nil {
			// Redis unavailable; allow the request rather than lock everyone out
			c.Next()
			return
		}

		if !result.Allowed {
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too_many_requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// --- Error Handling ---

// handleError matches with errors.Is because the service wraps some
// sentinels with provider detail.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrInvalidTokenClaims):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case errors.Is(err, ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
	case errors.Is(err, ErrRevokedToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
	case errors.Is(err, ErrTokenNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token not found"})
	case errors.Is(err, ErrInvalidOAuthProvider):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth provider"})
	case errors.Is(err, ErrInvalidOAuthCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth code"})
	case errors.Is(err, ErrInvalidOAuthState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
	case errors.Is(err, ErrOAuthFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "oauth authentication failed"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
