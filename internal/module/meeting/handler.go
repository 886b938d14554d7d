package meeting

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for meetings.
type Handler struct {
	service *Service
}

// NewHandler creates a new meeting handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	meetings := r.Group("/meetings")
	{
		meetings.POST("", h.Create)
		meetings.GET("", h.List)
		meetings.GET("/:id", h.Get)
		meetings.PUT("/:id", h.Update)
		meetings.DELETE("/:id", h.Delete)
		meetings.POST("/:id/join", h.Join)
		meetings.POST("/:id/leave", h.Leave)
		meetings.POST("/:id/invitees", h.Invite)
		meetings.DELETE("/:id/invitees/:userID", h.RemoveInvitee)
	}
}

// Create handles meeting creation.
//
//	@Summary		Create meeting
//	@Description	Create a new meeting with the caller as host
//	@Tags			Meeting
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateMeetingRequest	true	"Meeting details"
//	@Success		201		{object}	MeetingResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Router			/meetings [post]
func (h *Handler) Create(c *gin.Context) {
	userID := getUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meeting, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, meeting.ToResponse())
}

// List returns the caller's meetings split into upcoming and past.
//
//	@Summary		List my meetings
//	@Description	List the caller's meetings, split into upcoming and past
//	@Tags			Meeting
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	MeetingListResponse
//	@Failure		401	{object}	map[string]string
//	@Router			/meetings [get]
func (h *Handler) List(c *gin.Context) {
	userID := getUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	upcoming, past, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := MeetingListResponse{
		Upcoming: make([]*MeetingResponse, 0, len(upcoming)),
		Past:     make([]*MeetingResponse, 0, len(past)),
	}
	for _, m := range upcoming {
		resp.Upcoming = append(resp.Upcoming, m.ToResponse())
	}
	for _, m := range past {
		resp.Past = append(resp.Past, m.ToResponse())
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns a single meeting.
//
//	@Summary		Get meeting
//	@Description	Get a meeting with its participants and invitees
//	@Tags			Meeting
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Meeting ID"
//	@Success		200	{object}	MeetingResponse
//	@Failure		404	{object}	map[string]string
//	@Router			/meetings/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	meetingID, ok := parseMeetingID(c)
	if !ok {
		return
	}

	meeting, err := h.service.Get(c.Request.Context(), meetingID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, meeting.ToResponse())
}

// Update handles host edits.
//
//	@Summary		Update meeting
//	@Description	Update meeting details. Host only; last write wins
//	@Tags			Meeting
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Meeting ID"
//	@Param			request	body		UpdateMeetingRequest	true	"Fields to update"
//	@Success		200		{object}	MeetingResponse
//	@Failure		403		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/meetings/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID := getUserID(c)
	meetingID, ok := parseMeetingID(c)
	if !ok {
		return
	}

	var req UpdateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meeting, err := h.service.Update(c.Request.Context(), meetingID, userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, meeting.ToResponse())
}

// Delete handles meeting deletion.
//
//	@Summary		Delete meeting
//	@Description	Delete a meeting. Host only
//	@Tags			Meeting
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Meeting ID"
//	@Success		200	{object}	MessageResponse
//	@Failure		403	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/meetings/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID := getUserID(c)
	meetingID, ok := parseMeetingID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), meetingID, userID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Meeting deleted"})
}

// Join handles joining a meeting.
//
//	@Summary		Join meeting
//	@Description	Join a meeting as a participant
//	@Tags			Meeting
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Meeting ID"
//	@Success		200	{object}	MeetingResponse
//	@Failure		403	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Failure		409	{object}	map[string]string
//	@Router			/meetings/{id}/join [post]
func (h *Handler) Join(c *gin.Context) {
	userID := getUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	meetingID, ok := parseMeetingID(c)
	if !ok {
		return
	}

	meeting, err := h.service.Join(c.Request.Context(), meetingID, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, meeting.ToResponse())
}

// Leave handles leaving a meeting.
//
//	@Summary		Leave meeting
//	@Description	Leave a meeting. No-op when not a participant
//	@Tags			Meeting
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Meeting ID"
//	@Success		200	{object}	MessageResponse
//	@Failure		403	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/meetings/{id}/leave [post]
func (h *Handler) Leave(c *gin.Context) {
	userID := getUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	meetingID, ok := parseMeetingID(c)
	if !ok {
		return
	}

	if err := h.service.Leave(c.Request.Context(), meetingID, userID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Left meeting"})
}

// Invite handles inviting a user by email.
//
//	@Summary		Invite user
//	@Description	Invite a registered user to a meeting by email. Host only
//	@Tags			Meeting
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string			true	"Meeting ID"
//	@Param			request	body		InviteRequest	true	"Invitee email"
//	@Success		201		{object}	InviteeResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		403		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Router			/meetings/{id}/invitees [post]
func (h *Handler) Invite(c *gin.Context) {
	userID := getUserID(c)
	meetingID, ok := parseMeetingID(c)
	if !ok {
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitee, err := h.service.Invite(c.Request.Context(), meetingID, userID, req.Email)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, InviteeResponse{
		UserID:      invitee.UserID,
		Email:       invitee.Email,
		DisplayName: invitee.DisplayName,
		InvitedAt:   invitee.InvitedAt,
	})
}

// RemoveInvitee handles removing an invitee.
//
//	@Summary		Remove invitee
//	@Description	Remove an invitee from a meeting. Host only
//	@Tags			Meeting
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Meeting ID"
//	@Param			userID	path		string	true	"Invitee user ID"
//	@Success		200		{object}	MessageResponse
//	@Failure		403		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/meetings/{id}/invitees/{userID} [delete]
func (h *Handler) RemoveInvitee(c *gin.Context) {
	userID := getUserID(c)
	meetingID, ok := parseMeetingID(c)
	if !ok {
		return
	}

	inviteeID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_user_id"})
		return
	}

	if err := h.service.RemoveInvitee(c.Request.Context(), meetingID, userID, inviteeID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Invitee removed"})
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

func parseMeetingID(c *gin.Context) (uuid.UUID, bool) {
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_meeting_id"})
		return uuid.Nil, false
	}
	return meetingID, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMeetingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting_not_found", "message": "Meeting not found"})
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found", "message": "No user with that email"})
	case errors.Is(err, ErrInviteeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "invitee_not_found", "message": "Invitee not found"})
	case errors.Is(err, ErrNotHost):
		c.JSON(http.StatusForbidden, gin.H{"error": "not_host", "message": "Only the host may perform this action"})
	case errors.Is(err, ErrHostCannotLeave):
		c.JSON(http.StatusForbidden, gin.H{"error": "host_cannot_leave", "message": "The host cannot leave the meeting"})
	case errors.Is(err, ErrNotInvited):
		c.JSON(http.StatusForbidden, gin.H{"error": "not_invited", "message": "An invitation is required to join"})
	case errors.Is(err, ErrAlreadyParticipant):
		c.JSON(http.StatusConflict, gin.H{"error": "already_participant", "message": "Already a participant"})
	case errors.Is(err, ErrAlreadyInvited):
		c.JSON(http.StatusConflict, gin.H{"error": "already_invited", "message": "Email is already invited"})
	case errors.Is(err, ErrEmailRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email_required", "message": "Email is required"})
	case errors.Is(err, ErrEmailInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email_invalid", "message": "Email is not valid"})
	case errors.Is(err, ErrCannotInviteSelf):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot_invite_self", "message": "Cannot invite yourself"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
