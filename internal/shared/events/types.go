package events

import (
	"time"

	"github.com/google/uuid"
)

// Meeting event type constants.
const (
	MeetingCreatedType    = "MeetingCreated"
	MeetingDeletedType    = "MeetingDeleted"
	ParticipantJoinedType = "ParticipantJoined"
	ParticipantLeftType   = "ParticipantLeft"
)

// Participant role constants for event handlers.
const (
	RoleHost        = "host"
	RoleParticipant = "participant"
)

// MeetingCreatedEvent is emitted when a meeting is created.
// The creator joins as host in the same transaction; the event carries
// the host membership so index maintenance can follow outside it.
type MeetingCreatedEvent struct {
	BaseEvent

	// MeetingID is the unique identifier of the meeting.
	MeetingID uuid.UUID `json:"meeting_id"`

	// HostID is the ID of the user who created the meeting.
	HostID uuid.UUID `json:"host_id"`

	// JoinedAt is when the host membership was recorded.
	JoinedAt time.Time `json:"joined_at"`
}

// NewMeetingCreatedEvent creates a new MeetingCreatedEvent.
func NewMeetingCreatedEvent(meetingID, hostID uuid.UUID, joinedAt time.Time) *MeetingCreatedEvent {
	return &MeetingCreatedEvent{
		BaseEvent: NewBaseEvent(MeetingCreatedType, meetingID, "Meeting"),
		MeetingID: meetingID,
		HostID:    hostID,
		JoinedAt:  joinedAt,
	}
}

// MeetingDeletedEvent is emitted when a meeting is deleted.
type MeetingDeletedEvent struct {
	BaseEvent

	// MeetingID is the unique identifier of the meeting.
	MeetingID uuid.UUID `json:"meeting_id"`

	// HostID is the ID of the user who deleted the meeting.
	HostID uuid.UUID `json:"host_id"`
}

// NewMeetingDeletedEvent creates a new MeetingDeletedEvent.
func NewMeetingDeletedEvent(meetingID, hostID uuid.UUID) *MeetingDeletedEvent {
	return &MeetingDeletedEvent{
		BaseEvent: NewBaseEvent(MeetingDeletedType, meetingID, "Meeting"),
		MeetingID: meetingID,
		HostID:    hostID,
	}
}

// ParticipantJoinedEvent is emitted when a user joins a meeting.
type ParticipantJoinedEvent struct {
	BaseEvent

	// MeetingID is the unique identifier of the meeting.
	MeetingID uuid.UUID `json:"meeting_id"`

	// UserID is the ID of the user who joined.
	UserID uuid.UUID `json:"user_id"`

	// Role is the participant role ("host" or "participant").
	Role string `json:"role"`

	// JoinedAt is when the membership was recorded.
	JoinedAt time.Time `json:"joined_at"`
}

// NewParticipantJoinedEvent creates a new ParticipantJoinedEvent.
func NewParticipantJoinedEvent(meetingID, userID uuid.UUID, role string, joinedAt time.Time) *ParticipantJoinedEvent {
	return &ParticipantJoinedEvent{
		BaseEvent: NewBaseEvent(ParticipantJoinedType, meetingID, "Meeting"),
		MeetingID: meetingID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  joinedAt,
	}
}

// ParticipantLeftEvent is emitted when a user leaves a meeting.
type ParticipantLeftEvent struct {
	BaseEvent

	// MeetingID is the unique identifier of the meeting.
	MeetingID uuid.UUID `json:"meeting_id"`

	// UserID is the ID of the user who left.
	UserID uuid.UUID `json:"user_id"`
}

// NewParticipantLeftEvent creates a new ParticipantLeftEvent.
func NewParticipantLeftEvent(meetingID, userID uuid.UUID) *ParticipantLeftEvent {
	return &ParticipantLeftEvent{
		BaseEvent: NewBaseEvent(ParticipantLeftType, meetingID, "Meeting"),
		MeetingID: meetingID,
		UserID:    userID,
	}
}
