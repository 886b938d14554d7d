package meeting

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetgo/server/internal/shared/events"
	"github.com/meetgo/server/internal/shared/metrics"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service provides meeting membership operations.
type Service struct {
	repo     Repository
	userRepo UserRepository
	bus      *events.Bus
	metrics  *metrics.Metrics
	logger   *zap.Logger

	// openEnrollment allows joining without a standing invitation.
	openEnrollment bool
}

// NewService creates a new meeting service. Metrics may be nil.
func NewService(repo Repository, userRepo UserRepository, bus *events.Bus, m *metrics.Metrics, logger *zap.Logger, openEnrollment bool) *Service {
	return &Service{
		repo:           repo,
		userRepo:       userRepo,
		bus:            bus,
		metrics:        m,
		logger:         logger,
		openEnrollment: openEnrollment,
	}
}

func (s *Service) record(operation string) {
	if s.metrics != nil {
		s.metrics.RecordMeetingOperation(operation)
	}
}

// --- Meeting Lifecycle ---

// Create creates a meeting with the caller as host. The meeting row and
// the host's participant row are written in one transaction; the per-user
// index row is written by an event handler after commit, as a separate
// write that can be lost on a crash in between.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateMeetingRequest) (*Meeting, error) {
	host, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if host == nil {
		return nil, ErrUserNotFound
	}

	now := time.Now()
	meeting := &Meeting{
		ID:             uuid.New(),
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		Date:           req.Date,
		Deadline:       req.Deadline,
		VoteEnabled:    req.VoteEnabled,
		Status:         MeetingStatusActive,
		CreatedByID:    host.ID,
		CreatedByEmail: host.Email,
		CreatedByName:  displayName(host.Name, host.Email),
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.CreateMeeting(ctx, meeting); err != nil {
		return nil, err
	}

	participant := &Participant{
		MeetingID:   meeting.ID,
		UserID:      host.ID,
		Email:       host.Email,
		DisplayName: meeting.CreatedByName,
		Role:        RoleHost,
		JoinedAt:    now,
	}
	if err := tx.AddParticipant(ctx, participant); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	meeting.Participants = []Participant{*participant}

	s.record("created")
	s.bus.Publish(events.NewMeetingCreatedEvent(meeting.ID, host.ID, now))

	s.logger.Info("meeting created",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("host_id", host.ID.String()))

	return meeting, nil
}

// Get returns a meeting with its participants and invitees.
func (s *Service) Get(ctx context.Context, meetingID uuid.UUID) (*Meeting, error) {
	return s.repo.GetMeetingByID(ctx, meetingID)
}

// List returns the caller's meetings from the per-user index, split into
// upcoming and past by meeting date.
func (s *Service) List(ctx context.Context, userID uuid.UUID) (upcoming, past []*Meeting, err error) {
	entries, err := s.repo.ListUserMeetings(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.MeetingID)
	}

	meetings, err := s.repo.ListMeetingsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	upcoming, past = splitByDate(meetings, time.Now())
	return upcoming, past, nil
}

// Update applies a host edit. Omitted fields keep their value; the write
// is last-write-wins with no version check.
func (s *Service) Update(ctx context.Context, meetingID, userID uuid.UUID, req *UpdateMeetingRequest) (*Meeting, error) {
	meeting, err := s.repo.GetMeetingByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if !meeting.IsHost(userID) {
		return nil, ErrNotHost
	}

	if req.Title != nil {
		meeting.Title = *req.Title
	}
	if req.Description != nil {
		meeting.Description = *req.Description
	}
	if req.Location != nil {
		meeting.Location = *req.Location
	}
	if req.Date != nil {
		meeting.Date = *req.Date
	}
	if req.Deadline != nil {
		meeting.Deadline = *req.Deadline
	}
	if req.VoteEnabled != nil {
		meeting.VoteEnabled = *req.VoteEnabled
	}

	if err := s.repo.UpdateMeeting(ctx, meeting); err != nil {
		return nil, err
	}

	s.record("updated")
	return meeting, nil
}

// Delete removes a meeting and its membership rows. Per-user index rows
// are left behind; List tolerates the dangling references.
func (s *Service) Delete(ctx context.Context, meetingID, userID uuid.UUID) error {
	meeting, err := s.repo.GetMeetingByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if !meeting.IsHost(userID) {
		return ErrNotHost
	}

	if err := s.repo.DeleteMeeting(ctx, meetingID); err != nil {
		return err
	}

	s.record("deleted")
	s.bus.Publish(events.NewMeetingDeletedEvent(meetingID, userID))

	s.logger.Info("meeting deleted",
		zap.String("meeting_id", meetingID.String()),
		zap.String("host_id", userID.String()))

	return nil
}

// --- Membership ---

// Join adds the caller as a participant. The meeting is re-read inside
// the transaction so a deleted meeting aborts with no partial effect; a
// matching invitee entry is removed in the same transaction.
func (s *Service) Join(ctx context.Context, meetingID, userID uuid.UUID) (*Meeting, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	meeting, err := tx.GetMeetingByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	if meeting.ParticipantFor(userID) != nil {
		return nil, ErrAlreadyParticipant
	}
	if !s.openEnrollment && meeting.InviteeFor(userID) == nil && !meeting.HasInviteeEmail(user.Email) {
		return nil, ErrNotInvited
	}

	now := time.Now()
	participant := &Participant{
		MeetingID:   meetingID,
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: displayName(user.Name, user.Email),
		Role:        RoleParticipant,
		JoinedAt:    now,
	}
	if err := tx.AddParticipant(ctx, participant); err != nil {
		return nil, err
	}
	if err := tx.RemoveInviteeByEmail(ctx, meetingID, user.Email); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.record("joined")
	if s.metrics != nil {
		s.metrics.ObserveMeetingParticipants("joined", len(meeting.Participants)+1)
	}
	s.bus.Publish(events.NewParticipantJoinedEvent(meetingID, user.ID, string(RoleParticipant), now))

	return s.repo.GetMeetingByID(ctx, meetingID)
}

// Leave removes the caller's participant entry and puts them back on the
// invitee list. Leaving a meeting the caller is not part of is a no-op.
func (s *Service) Leave(ctx context.Context, meetingID, userID uuid.UUID) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	meeting, err := tx.GetMeetingByID(ctx, meetingID)
	if err != nil {
		return err
	}

	participant := meeting.ParticipantFor(userID)
	if participant == nil {
		return nil
	}
	if participant.Role == RoleHost {
		return ErrHostCannotLeave
	}

	if err := tx.RemoveParticipant(ctx, meetingID, userID); err != nil {
		return err
	}

	invitee := &Invitee{
		MeetingID:   meetingID,
		UserID:      participant.UserID,
		Email:       participant.Email,
		DisplayName: participant.DisplayName,
		InvitedAt:   time.Now(),
	}
	if err := tx.AddInvitee(ctx, invitee); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.record("left")
	if s.metrics != nil {
		s.metrics.ObserveMeetingParticipants("left", len(meeting.Participants)-1)
	}
	s.bus.Publish(events.NewParticipantLeftEvent(meetingID, userID))

	return nil
}

// Invite validates an email and adds an invitee snapshot. Host only.
func (s *Service) Invite(ctx context.Context, meetingID, userID uuid.UUID, email string) (*Invitee, error) {
	meeting, err := s.repo.GetMeetingByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if !meeting.IsHost(userID) {
		return nil, ErrNotHost
	}

	// Validation happens before any user lookup.
	if err := validateInvite(email, meeting.CreatedByEmail, meeting.Invitees); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if meeting.ParticipantFor(user.ID) != nil {
		return nil, ErrAlreadyParticipant
	}

	invitee := &Invitee{
		MeetingID:   meetingID,
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: displayName(user.Name, user.Email),
		InvitedAt:   time.Now(),
	}
	if err := s.repo.AddInvitee(ctx, invitee); err != nil {
		return nil, err
	}

	s.record("invited")
	return invitee, nil
}

// RemoveInvitee removes an invitee. Host only.
func (s *Service) RemoveInvitee(ctx context.Context, meetingID, userID, inviteeID uuid.UUID) error {
	meeting, err := s.repo.GetMeetingByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if !meeting.IsHost(userID) {
		return ErrNotHost
	}

	return s.repo.RemoveInvitee(ctx, meetingID, inviteeID)
}

// --- Helpers ---

// validateInvite checks an invite email against the host and the current
// invitee list. It never touches the store.
func validateInvite(email, hostEmail string, invitees []Invitee) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	if email == hostEmail {
		return ErrCannotInviteSelf
	}
	for i := range invitees {
		if invitees[i].Email == email {
			return ErrAlreadyInvited
		}
	}
	return nil
}

// displayName falls back to the local part of the email when the profile
// has no name.
func displayName(name, email string) string {
	if name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// splitByDate partitions meetings into upcoming and past relative to now.
func splitByDate(meetings []*Meeting, now time.Time) (upcoming, past []*Meeting) {
	for _, m := range meetings {
		if m.IsUpcoming(now) {
			upcoming = append(upcoming, m)
		} else {
			past = append(past, m)
		}
	}
	return upcoming, past
}
