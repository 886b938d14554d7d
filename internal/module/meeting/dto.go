package meeting

import (
	"time"

	"github.com/google/uuid"
)

// CreateMeetingRequest represents a new-meeting form submission.
type CreateMeetingRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date" binding:"required"`
	Deadline    time.Time `json:"deadline"`
	VoteEnabled bool      `json:"vote_enabled"`
}

// UpdateMeetingRequest represents a host edit. Omitted fields keep their
// current value; the write itself is last-write-wins.
type UpdateMeetingRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	VoteEnabled *bool      `json:"vote_enabled,omitempty"`
}

// InviteRequest represents an invite form submission.
type InviteRequest struct {
	Email string `json:"email" binding:"required"`
}

// ParticipantResponse represents a participant in API responses.
type ParticipantResponse struct {
	UserID      uuid.UUID       `json:"user_id"`
	Email       string          `json:"email"`
	DisplayName string          `json:"display_name"`
	Role        ParticipantRole `json:"role"`
	JoinedAt    time.Time       `json:"joined_at"`
}

// InviteeResponse represents an invitee in API responses.
type InviteeResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	InvitedAt   time.Time `json:"invited_at"`
}

// MeetingResponse represents a meeting in API responses.
type MeetingResponse struct {
	ID             uuid.UUID             `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description,omitempty"`
	Location       string                `json:"location,omitempty"`
	Date           time.Time             `json:"date"`
	Deadline       time.Time             `json:"deadline"`
	VoteEnabled    bool                  `json:"vote_enabled"`
	Status         MeetingStatus         `json:"status"`
	CreatedByID    uuid.UUID             `json:"created_by_id"`
	CreatedByEmail string                `json:"created_by_email"`
	CreatedByName  string                `json:"created_by_name"`
	CreatedAt      time.Time             `json:"created_at"`
	Participants   []ParticipantResponse `json:"participants"`
	Invitees       []InviteeResponse     `json:"invitees"`
}

// ToResponse converts a Meeting to MeetingResponse.
func (m *Meeting) ToResponse() *MeetingResponse {
	participants := make([]ParticipantResponse, 0, len(m.Participants))
	for _, p := range m.Participants {
		participants = append(participants, ParticipantResponse{
			UserID:      p.UserID,
			Email:       p.Email,
			DisplayName: p.DisplayName,
			Role:        p.Role,
			JoinedAt:    p.JoinedAt,
		})
	}

	invitees := make([]InviteeResponse, 0, len(m.Invitees))
	for _, inv := range m.Invitees {
		invitees = append(invitees, InviteeResponse{
			UserID:      inv.UserID,
			Email:       inv.Email,
			DisplayName: inv.DisplayName,
			InvitedAt:   inv.InvitedAt,
		})
	}

	return &MeetingResponse{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		Location:       m.Location,
		Date:           m.Date,
		Deadline:       m.Deadline,
		VoteEnabled:    m.VoteEnabled,
		Status:         m.Status,
		CreatedByID:    m.CreatedByID,
		CreatedByEmail: m.CreatedByEmail,
		CreatedByName:  m.CreatedByName,
		CreatedAt:      m.CreatedAt,
		Participants:   participants,
		Invitees:       invitees,
	}
}

// MeetingListResponse splits a user's meetings by date.
type MeetingListResponse struct {
	Upcoming []*MeetingResponse `json:"upcoming"`
	Past     []*MeetingResponse `json:"past"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}
