package meeting

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for meeting data access.
type Repository interface {
	// Meeting operations
	CreateMeeting(ctx context.Context, meeting *Meeting) error
	GetMeetingByID(ctx context.Context, id uuid.UUID) (*Meeting, error)
	ListMeetingsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Meeting, error)
	UpdateMeeting(ctx context.Context, meeting *Meeting) error
	DeleteMeeting(ctx context.Context, id uuid.UUID) error

	// Participant operations
	AddParticipant(ctx context.Context, participant *Participant) error
	RemoveParticipant(ctx context.Context, meetingID, userID uuid.UUID) error

	// Invitee operations
	AddInvitee(ctx context.Context, invitee *Invitee) error
	RemoveInvitee(ctx context.Context, meetingID, userID uuid.UUID) error
	RemoveInviteeByEmail(ctx context.Context, meetingID uuid.UUID, email string) error

	// Per-user index operations
	CreateUserMeeting(ctx context.Context, entry *UserMeeting) error
	DeleteUserMeeting(ctx context.Context, userID, meetingID uuid.UUID) error
	ListUserMeetings(ctx context.Context, userID uuid.UUID) ([]*UserMeeting, error)

	// Transaction support
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx is a Repository scoped to an open transaction. Rollback after a
// successful Commit is a no-op.
type Tx interface {
	Repository

	Commit() error
	Rollback() error
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new meeting repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// BeginTx starts a new transaction.
func (r *repository) BeginTx(ctx context.Context) (Tx, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormTx{repository: repository{db: tx}}, nil
}

// gormTx runs repository operations on a transaction connection.
type gormTx struct {
	repository
	done bool
}

func (t *gormTx) Commit() error {
	if err := t.db.Commit().Error; err != nil {
		return err
	}
	t.done = true
	return nil
}

func (t *gormTx) Rollback() error {
	if t.done {
		return nil
	}
	return t.db.Rollback().Error
}

// CreateMeeting creates a new meeting.
func (r *repository) CreateMeeting(ctx context.Context, meeting *Meeting) error {
	return r.db.WithContext(ctx).Create(meeting).Error
}

// GetMeetingByID retrieves a meeting with its participants and invitees.
func (r *repository) GetMeetingByID(ctx context.Context, id uuid.UUID) (*Meeting, error) {
	var meeting Meeting
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Invitees").
		Where("id = ?", id).
		First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

// ListMeetingsByIDs retrieves meetings by id, newest date first.
func (r *repository) ListMeetingsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Meeting, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var meetings []*Meeting
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Invitees").
		Where("id IN ?", ids).
		Order("date DESC").
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return meetings, nil
}

// UpdateMeeting saves the full meeting row. Last write wins.
func (r *repository) UpdateMeeting(ctx context.Context, meeting *Meeting) error {
	return r.db.WithContext(ctx).
		Model(&Meeting{}).
		Where("id = ?", meeting.ID).
		Updates(map[string]interface{}{
			"title":        meeting.Title,
			"description":  meeting.Description,
			"location":     meeting.Location,
			"date":         meeting.Date,
			"deadline":     meeting.Deadline,
			"vote_enabled": meeting.VoteEnabled,
			"status":       meeting.Status,
		}).Error
}

// DeleteMeeting deletes a meeting. Participant and invitee rows cascade.
func (r *repository) DeleteMeeting(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Meeting{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

// AddParticipant creates a participant row.
func (r *repository) AddParticipant(ctx context.Context, participant *Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

// RemoveParticipant deletes a participant row.
func (r *repository) RemoveParticipant(ctx context.Context, meetingID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		Delete(&Participant{}).Error
}

// AddInvitee creates an invitee row.
func (r *repository) AddInvitee(ctx context.Context, invitee *Invitee) error {
	return r.db.WithContext(ctx).Create(invitee).Error
}

// RemoveInvitee deletes an invitee row by user id.
func (r *repository) RemoveInvitee(ctx context.Context, meetingID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		Delete(&Invitee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInviteeNotFound
	}
	return nil
}

// RemoveInviteeByEmail deletes any invitee row matching the email.
func (r *repository) RemoveInviteeByEmail(ctx context.Context, meetingID uuid.UUID, email string) error {
	return r.db.WithContext(ctx).
		Where("meeting_id = ? AND email = ?", meetingID, email).
		Delete(&Invitee{}).Error
}

// CreateUserMeeting inserts a per-user index row.
func (r *repository) CreateUserMeeting(ctx context.Context, entry *UserMeeting) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// DeleteUserMeeting removes a per-user index row.
func (r *repository) DeleteUserMeeting(ctx context.Context, userID, meetingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND meeting_id = ?", userID, meetingID).
		Delete(&UserMeeting{}).Error
}

// ListUserMeetings lists the index rows for a user.
func (r *repository) ListUserMeetings(ctx context.Context, userID uuid.UUID) ([]*UserMeeting, error) {
	var entries []*UserMeeting
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UserRepository defines the interface for user lookup.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// userRepository implements UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository for the meeting module.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetUserByEmail retrieves a user by email.
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found is not an error
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
