package friend

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RequestStatus represents the state of a friend request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// IsTerminal returns true once a request has been responded to.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// FriendRequest is a one-directional friendship proposal. Both parties
// are embedded as snapshots taken when the request is sent. Rows are
// never deleted; terminal states persist as history.
type FriendRequest struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	FromID    uuid.UUID `json:"from_id" gorm:"type:uuid;not null;index"`
	FromEmail string    `json:"from_email" gorm:"not null"`
	FromName  string    `json:"from_name"`

	ToID    uuid.UUID `json:"to_id" gorm:"type:uuid;not null;index"`
	ToEmail string    `json:"to_email" gorm:"not null"`
	ToName  string    `json:"to_name"`

	Status      RequestStatus `json:"status" gorm:"not null;default:pending"`
	CreatedAt   time.Time     `json:"created_at" gorm:"column:created_at"`
	RespondedAt *time.Time    `json:"responded_at,omitempty" gorm:"column:responded_at"`
}

// TableName returns the database table name.
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friendship is a mutually accepted, symmetric relation. UserIDs holds
// both ids for order-independent membership queries; the snapshot
// columns keep each party's identity as of acceptance time. Never mutated.
type Friendship struct {
	ID      uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserIDs pq.StringArray `json:"user_ids" gorm:"type:text[];not null"`

	UserAID    uuid.UUID `json:"user_a_id" gorm:"type:uuid;not null"`
	UserAEmail string    `json:"user_a_email" gorm:"not null"`
	UserAName  string    `json:"user_a_name"`

	UserBID    uuid.UUID `json:"user_b_id" gorm:"type:uuid;not null"`
	UserBEmail string    `json:"user_b_email" gorm:"not null"`
	UserBName  string    `json:"user_b_name"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the database table name.
func (Friendship) TableName() string {
	return "friendships"
}

// FriendUser is one party of a friendship as seen by the other.
type FriendUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// OtherUser returns the snapshot of the party that is not userID, or nil
// when userID is not part of the friendship.
func (f *Friendship) OtherUser(userID uuid.UUID) *FriendUser {
	switch userID {
	case f.UserAID:
		return &FriendUser{ID: f.UserBID, Email: f.UserBEmail, Name: f.UserBName}
	case f.UserBID:
		return &FriendUser{ID: f.UserAID, Email: f.UserAEmail, Name: f.UserAName}
	default:
		return nil
	}
}

// User is a minimal user struct for request snapshots.
type User struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}
