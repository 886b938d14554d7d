package events

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBus_Publish(t *testing.T) {
	t.Run("dispatches to registered handler", func(t *testing.T) {
		bus := NewBus(zap.NewNop())

		var received []string
		bus.Register(NewHandlerFunc([]string{ParticipantJoinedType}, func(e Event) error {
			received = append(received, e.EventType())
			return nil
		}))

		bus.Publish(NewParticipantJoinedEvent(uuid.New(), uuid.New(), RoleParticipant, time.Now()))

		assert.Equal(t, []string{ParticipantJoinedType}, received)
	})

	t.Run("ignores events with no handlers", func(t *testing.T) {
		bus := NewBus(zap.NewNop())

		assert.NotPanics(t, func() {
			bus.Publish(NewMeetingDeletedEvent(uuid.New(), uuid.New()))
		})
	})

	t.Run("handler error does not block later handlers", func(t *testing.T) {
		bus := NewBus(zap.NewNop())

		bus.Register(NewHandlerFunc([]string{MeetingCreatedType}, func(Event) error {
			return errors.New("boom")
		}))

		called := false
		bus.Register(NewHandlerFunc([]string{MeetingCreatedType}, func(Event) error {
			called = true
			return nil
		}))

		bus.Publish(NewMeetingCreatedEvent(uuid.New(), uuid.New(), time.Now()))

		assert.True(t, called)
	})

	t.Run("handler only receives its event types", func(t *testing.T) {
		bus := NewBus(zap.NewNop())

		var count int
		bus.Register(NewHandlerFunc([]string{ParticipantLeftType}, func(Event) error {
			count++
			return nil
		}))

		bus.Publish(NewParticipantJoinedEvent(uuid.New(), uuid.New(), RoleHost, time.Now()))
		bus.Publish(NewParticipantLeftEvent(uuid.New(), uuid.New()))

		assert.Equal(t, 1, count)
	})
}

func TestBus_PublishAll(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var received []string
	bus.Register(NewHandlerFunc(
		[]string{ParticipantJoinedType, ParticipantLeftType},
		func(e Event) error {
			received = append(received, e.EventType())
			return nil
		},
	))

	meetingID := uuid.New()
	userID := uuid.New()
	bus.PublishAll([]Event{
		NewParticipantJoinedEvent(meetingID, userID, RoleParticipant, time.Now()),
		NewParticipantLeftEvent(meetingID, userID),
	})

	assert.Equal(t, []string{ParticipantJoinedType, ParticipantLeftType}, received)
}

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()
	e := NewBaseEvent(MeetingCreatedType, aggregateID, "Meeting")

	assert.NotEqual(t, uuid.Nil, e.EventID())
	assert.Equal(t, MeetingCreatedType, e.EventType())
	assert.Equal(t, aggregateID, e.AggregateID())
	assert.Equal(t, "Meeting", e.AggregateType())
	assert.WithinDuration(t, time.Now(), e.OccurredAt(), time.Second)
}
