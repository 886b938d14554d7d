package meeting

import (
	"time"

	"github.com/google/uuid"
)

// ParticipantRole identifies a participant's role on a meeting.
type ParticipantRole string

const (
	RoleHost        ParticipantRole = "host"
	RoleParticipant ParticipantRole = "participant"
)

// MeetingStatus represents the lifecycle status of a meeting.
type MeetingStatus string

const (
	MeetingStatusActive MeetingStatus = "active"
)

// Meeting represents a scheduled meeting. The creator is embedded as a
// snapshot taken at creation time, not joined live to the users table.
type Meeting struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date" gorm:"not null;index"`
	Deadline    time.Time `json:"deadline"`
	VoteEnabled bool      `json:"vote_enabled" gorm:"default:false"`

	Status MeetingStatus `json:"status" gorm:"default:active"`

	// Host snapshot, captured at creation
	CreatedByID    uuid.UUID `json:"created_by_id" gorm:"type:uuid;not null;index"`
	CreatedByEmail string    `json:"created_by_email" gorm:"not null"`
	CreatedByName  string    `json:"created_by_name"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`

	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE"`
	Invitees     []Invitee     `json:"invitees,omitempty" gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name.
func (Meeting) TableName() string {
	return "meetings"
}

// IsHost returns true if the given user created the meeting.
func (m *Meeting) IsHost(userID uuid.UUID) bool {
	return m.CreatedByID == userID
}

// IsUpcoming returns true if the meeting date is at or after the given instant.
func (m *Meeting) IsUpcoming(now time.Time) bool {
	return !m.Date.Before(now)
}

// ParticipantFor returns the participant entry for a user, or nil.
func (m *Meeting) ParticipantFor(userID uuid.UUID) *Participant {
	for i := range m.Participants {
		if m.Participants[i].UserID == userID {
			return &m.Participants[i]
		}
	}
	return nil
}

// InviteeFor returns the invitee entry for a user, or nil.
func (m *Meeting) InviteeFor(userID uuid.UUID) *Invitee {
	for i := range m.Invitees {
		if m.Invitees[i].UserID == userID {
			return &m.Invitees[i]
		}
	}
	return nil
}

// HasInviteeEmail reports whether an email already appears in the invitee list.
func (m *Meeting) HasInviteeEmail(email string) bool {
	for i := range m.Invitees {
		if m.Invitees[i].Email == email {
			return true
		}
	}
	return false
}

// Participant represents a user who has joined a meeting. Identity
// attributes are snapshotted at join time.
type Participant struct {
	MeetingID   uuid.UUID       `json:"meeting_id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `json:"user_id" gorm:"type:uuid;primaryKey"`
	Email       string          `json:"email" gorm:"not null"`
	DisplayName string          `json:"display_name"`
	Role        ParticipantRole `json:"role" gorm:"not null;default:participant"`
	JoinedAt    time.Time       `json:"joined_at" gorm:"not null"`
}

// TableName returns the database table name.
func (Participant) TableName() string {
	return "meeting_participants"
}

// Invitee represents a user invited to a meeting who has not yet joined.
// Identity attributes are snapshotted at invite time.
type Invitee struct {
	MeetingID   uuid.UUID `json:"meeting_id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	Email       string    `json:"email" gorm:"not null"`
	DisplayName string    `json:"display_name"`
	InvitedAt   time.Time `json:"invited_at" gorm:"not null"`
}

// TableName returns the database table name.
func (Invitee) TableName() string {
	return "meeting_invitees"
}

// UserMeeting is the per-user meeting index row. It is written by event
// handlers after the meeting transaction commits, so it can lag behind
// or, on a crash between the two writes, diverge from the meeting row.
type UserMeeting struct {
	UserID    uuid.UUID       `json:"user_id" gorm:"type:uuid;primaryKey"`
	MeetingID uuid.UUID       `json:"meeting_id" gorm:"type:uuid;primaryKey"`
	Role      ParticipantRole `json:"role" gorm:"not null"`
	JoinedAt  time.Time       `json:"joined_at" gorm:"not null"`
}

// TableName returns the database table name.
func (UserMeeting) TableName() string {
	return "user_meetings"
}

// User is a minimal user struct for invite lookups.
type User struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}
