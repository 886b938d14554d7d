package friend

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for friend data access.
type Repository interface {
	// Request operations
	CreateRequest(ctx context.Context, request *FriendRequest) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, request *FriendRequest) error
	ListSentPending(ctx context.Context, fromID uuid.UUID) ([]*FriendRequest, error)
	ListReceivedPending(ctx context.Context, toID uuid.UUID) ([]*FriendRequest, error)

	// Friendship operations
	CreateFriendship(ctx context.Context, friendship *Friendship) error
	ListFriendships(ctx context.Context, userID uuid.UUID) ([]*Friendship, error)

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

// NewRepository creates a new friend repository.
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

// CreateRequest creates a friend request.
func (r *repository) CreateRequest(ctx context.Context, request *FriendRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetRequestByID retrieves a friend request.
func (r *repository) GetRequestByID(ctx context.Context, id uuid.UUID) (*FriendRequest, error) {
	var request FriendRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

// UpdateRequestStatus persists a status transition. The update is
// conditional on the row still being pending, so two concurrent
// responses cannot both win; the loser gets ErrAlreadyResponded.
func (r *repository) UpdateRequestStatus(ctx context.Context, request *FriendRequest) error {
	result := r.db.WithContext(ctx).
		Model(&FriendRequest{}).
		Where("id = ? AND status = ?", request.ID, StatusPending).
		Updates(map[string]interface{}{
			"status":       request.Status,
			"responded_at": request.RespondedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyResponded
	}
	return nil
}

// ListSentPending lists pending requests sent by a user.
func (r *repository) ListSentPending(ctx context.Context, fromID uuid.UUID) ([]*FriendRequest, error) {
	var requests []*FriendRequest
	err := r.db.WithContext(ctx).
		Where("from_id = ? AND status = ?", fromID, StatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ListReceivedPending lists pending requests addressed to a user.
func (r *repository) ListReceivedPending(ctx context.Context, toID uuid.UUID) ([]*FriendRequest, error) {
	var requests []*FriendRequest
	err := r.db.WithContext(ctx).
		Where("to_id = ? AND status = ?", toID, StatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// CreateFriendship creates a friendship row.
func (r *repository) CreateFriendship(ctx context.Context, friendship *Friendship) error {
	return r.db.WithContext(ctx).Create(friendship).Error
}

// ListFriendships lists friendships containing a user, using the
// order-independent id array.
func (r *repository) ListFriendships(ctx context.Context, userID uuid.UUID) ([]*Friendship, error) {
	var friendships []*Friendship
	err := r.db.WithContext(ctx).
		Where("? = ANY(user_ids)", userID.String()).
		Order("created_at DESC").
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	return friendships, nil
}

// UserRepository defines the interface for user lookup.
type UserRepository interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// userRepository implements UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository for the friend module.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetUserByID retrieves a user by ID.
func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found is not an error
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
