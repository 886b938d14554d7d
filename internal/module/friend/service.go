package friend

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meetgo/server/internal/shared/metrics"
)

// Service provides friend relationship operations.
type Service struct {
	repo     Repository
	userRepo UserRepository
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewService creates a new friend service. Metrics may be nil.
func NewService(repo Repository, userRepo UserRepository, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		metrics:  m,
		logger:   logger,
	}
}

func (s *Service) record(operation string) {
	if s.metrics != nil {
		s.metrics.RecordFriendRequest(operation)
	}
}

// SendRequest creates a pending friend request carrying snapshots of
// both parties. Sending to the same user twice is not prevented; each
// call produces an independent request row.
func (s *Service) SendRequest(ctx context.Context, fromID, toID uuid.UUID) (*FriendRequest, error) {
	if fromID == toID {
		return nil, ErrSelfRequest
	}

	from, err := s.userRepo.GetUserByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	if from == nil {
		return nil, ErrUserNotFound
	}

	to, err := s.userRepo.GetUserByID(ctx, toID)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, ErrUserNotFound
	}

	request := &FriendRequest{
		ID:        uuid.New(),
		FromID:    from.ID,
		FromEmail: from.Email,
		FromName:  displayName(from.Name, from.Email),
		ToID:      to.ID,
		ToEmail:   to.Email,
		ToName:    displayName(to.Name, to.Email),
		Status:    StatusPending,
	}

	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.record("sent")
	s.logger.Info("friend request sent",
		zap.String("request_id", request.ID.String()),
		zap.String("from_id", fromID.String()),
		zap.String("to_id", toID.String()))

	return request, nil
}

// SendRequestByEmail resolves the target by email, then sends a request.
func (s *Service) SendRequestByEmail(ctx context.Context, fromID uuid.UUID, email string) (*FriendRequest, error) {
	to, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, ErrUserNotFound
	}
	return s.SendRequest(ctx, fromID, to.ID)
}

// Respond applies the addressee's decision. A request may only be
// responded to once; acceptance creates the friendship in the same
// transaction as the status update. The pre-check on status is a fast
// path; the conditional status update inside the transaction is what
// keeps a pair of concurrent accepts from both creating a friendship.
func (s *Service) Respond(ctx context.Context, requestID, userID uuid.UUID, decision RequestStatus) (*FriendRequest, error) {
	if decision != StatusAccepted && decision != StatusRejected {
		return nil, ErrInvalidDecision
	}

	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ToID != userID {
		return nil, ErrNotAddressee
	}
	if request.Status != StatusPending {
		return nil, ErrAlreadyResponded
	}

	now := time.Now()
	request.Status = decision
	request.RespondedAt = &now

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.UpdateRequestStatus(ctx, request); err != nil {
		return nil, err
	}

	if decision == StatusAccepted {
		friendship := &Friendship{
			ID:         uuid.New(),
			UserIDs:    []string{request.FromID.String(), request.ToID.String()},
			UserAID:    request.FromID,
			UserAEmail: request.FromEmail,
			UserAName:  request.FromName,
			UserBID:    request.ToID,
			UserBEmail: request.ToEmail,
			UserBName:  request.ToName,
		}
		if err := tx.CreateFriendship(ctx, friendship); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.record(string(decision))
	s.logger.Info("friend request responded",
		zap.String("request_id", requestID.String()),
		zap.String("decision", string(decision)))

	return request, nil
}

// List returns the caller's friends and open requests. The three reads
// are independent and run concurrently.
func (s *Service) List(ctx context.Context, userID uuid.UUID) (*FriendListResponse, error) {
	var (
		friendships []*Friendship
		sent        []*FriendRequest
		received    []*FriendRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		friendships, err = s.repo.ListFriendships(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		sent, err = s.repo.ListSentPending(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		received, err = s.repo.ListReceivedPending(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &FriendListResponse{
		Friends:  flattenFriends(friendships, userID),
		Sent:     make([]*FriendRequestResponse, 0, len(sent)),
		Received: make([]*FriendRequestResponse, 0, len(received)),
	}
	for _, r := range sent {
		resp.Sent = append(resp.Sent, r.ToResponse())
	}
	for _, r := range received {
		resp.Received = append(resp.Received, r.ToResponse())
	}

	return resp, nil
}

// --- Helpers ---

// flattenFriends derives the friend list from friendships by taking the
// party that is not the caller.
func flattenFriends(friendships []*Friendship, userID uuid.UUID) []FriendUser {
	friends := make([]FriendUser, 0, len(friendships))
	for _, f := range friendships {
		if other := f.OtherUser(userID); other != nil {
			friends = append(friends, *other)
		}
	}
	return friends
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
