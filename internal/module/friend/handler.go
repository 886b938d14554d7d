package friend

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for friend relationships.
type Handler struct {
	service *Service
}

// NewHandler creates a new friend handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	friends := r.Group("/friends")
	{
		friends.GET("", h.List)
		friends.POST("/requests", h.SendRequest)
		friends.POST("/requests/:id/respond", h.Respond)
	}
}

// List returns the caller's friends and open requests.
//
//	@Summary		List friends
//	@Description	List friends, sent pending requests and received pending requests
//	@Tags			Friend
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	FriendListResponse
//	@Failure		401	{object}	map[string]string
//	@Router			/friends [get]
func (h *Handler) List(c *gin.Context) {
	userID := getUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	resp, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SendRequest handles sending a friend request.
//
//	@Summary		Send friend request
//	@Description	Send a friend request by user id or email
//	@Tags			Friend
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		SendRequestRequest	true	"Target user"
//	@Success		201		{object}	FriendRequestResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/friends/requests [post]
func (h *Handler) SendRequest(c *gin.Context) {
	userID := getUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		request *FriendRequest
		err     error
	)
	switch {
	case req.ToUserID != nil:
		request, err = h.service.SendRequest(c.Request.Context(), userID, *req.ToUserID)
	case req.Email != nil:
		request, err = h.service.SendRequestByEmail(c.Request.Context(), userID, *req.Email)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_required", "message": "Provide to_user_id or email"})
		return
	}
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request.ToResponse())
}

// Respond handles accepting or rejecting a received request.
//
//	@Summary		Respond to friend request
//	@Description	Accept or reject a received friend request
//	@Tags			Friend
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string			true	"Request ID"
//	@Param			request	body		RespondRequest	true	"Decision"
//	@Success		200		{object}	FriendRequestResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		403		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Router			/friends/requests/{id}/respond [post]
func (h *Handler) Respond(c *gin.Context) {
	userID := getUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_id"})
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.service.Respond(c.Request.Context(), requestID, userID, req.Decision)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, request.ToResponse())
}

// --- Helpers ---

func getUserID(c *gin.Context) uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "request_not_found", "message": "Friend request not found"})
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found", "message": "User not found"})
	case errors.Is(err, ErrNotAddressee):
		c.JSON(http.StatusForbidden, gin.H{"error": "not_addressee", "message": "Only the addressee may respond"})
	case errors.Is(err, ErrAlreadyResponded):
		c.JSON(http.StatusConflict, gin.H{"error": "already_responded", "message": "Request has already been responded to"})
	case errors.Is(err, ErrInvalidDecision):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_decision", "message": "Decision must be accepted or rejected"})
	case errors.Is(err, ErrSelfRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "self_request", "message": "Cannot send a friend request to yourself"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
