package friend

import (
	"time"

	"github.com/google/uuid"
)

// SendRequestRequest represents a friend request submission. The target
// is addressed by user id or by email; exactly one must be set.
type SendRequestRequest struct {
	ToUserID *uuid.UUID `json:"to_user_id,omitempty"`
	Email    *string    `json:"email,omitempty" binding:"omitempty,email"`
}

// RespondRequest represents a response to a received friend request.
type RespondRequest struct {
	Decision RequestStatus `json:"decision" binding:"required,oneof=accepted rejected"`
}

// FriendRequestResponse represents a friend request in API responses.
type FriendRequestResponse struct {
	ID          uuid.UUID     `json:"id"`
	From        FriendUser    `json:"from"`
	To          FriendUser    `json:"to"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	RespondedAt *time.Time    `json:"responded_at,omitempty"`
}

// ToResponse converts a FriendRequest to FriendRequestResponse.
func (r *FriendRequest) ToResponse() *FriendRequestResponse {
	return &FriendRequestResponse{
		ID:          r.ID,
		From:        FriendUser{ID: r.FromID, Email: r.FromEmail, Name: r.FromName},
		To:          FriendUser{ID: r.ToID, Email: r.ToEmail, Name: r.ToName},
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		RespondedAt: r.RespondedAt,
	}
}

// FriendListResponse bundles a user's friends and open requests.
type FriendListResponse struct {
	Friends  []FriendUser             `json:"friends"`
	Sent     []*FriendRequestResponse `json:"sent"`
	Received []*FriendRequestResponse `json:"received"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}
