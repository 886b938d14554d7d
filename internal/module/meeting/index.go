package meeting

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/meetgo/server/internal/shared/events"
)

// IndexHandler maintains the per-user meeting index in response to
// membership events. It runs outside the meeting transaction, so the
// index trails the meeting rows; deleted meetings keep their index rows.
type IndexHandler struct {
	repo   Repository
	logger *zap.Logger
}

// NewIndexHandler creates a new index handler.
func NewIndexHandler(repo Repository, logger *zap.Logger) *IndexHandler {
	return &IndexHandler{repo: repo, logger: logger}
}

// Handles returns the event types this handler processes.
func (h *IndexHandler) Handles() []string {
	return []string{
		events.MeetingCreatedType,
		events.ParticipantJoinedType,
		events.ParticipantLeftType,
	}
}

// Handle processes a membership event.
func (h *IndexHandler) Handle(event events.Event) error {
	ctx := context.Background()

	switch e := event.(type) {
	case *events.MeetingCreatedEvent:
		return h.repo.CreateUserMeeting(ctx, &UserMeeting{
			UserID:    e.HostID,
			MeetingID: e.MeetingID,
			Role:      RoleHost,
			JoinedAt:  e.JoinedAt,
		})
	case *events.ParticipantJoinedEvent:
		return h.repo.CreateUserMeeting(ctx, &UserMeeting{
			UserID:    e.UserID,
			MeetingID: e.MeetingID,
			Role:      ParticipantRole(e.Role),
			JoinedAt:  e.JoinedAt,
		})
	case *events.ParticipantLeftEvent:
		return h.repo.DeleteUserMeeting(ctx, e.UserID, e.MeetingID)
	default:
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}
}

var _ events.Handler = (*IndexHandler)(nil)
