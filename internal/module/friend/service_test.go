package friend

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFriendshipOtherUser(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	f := &Friendship{
		UserAID: a, UserAEmail: "a@x.com", UserAName: "A",
		UserBID: b, UserBEmail: "b@x.com", UserBName: "B",
	}

	t.Run("from a's side", func(t *testing.T) {
		other := f.OtherUser(a)
		require.NotNil(t, other)
		assert.Equal(t, b, other.ID)
		assert.Equal(t, "B", other.Name)
	})

	t.Run("from b's side", func(t *testing.T) {
		other := f.OtherUser(b)
		require.NotNil(t, other)
		assert.Equal(t, a, other.ID)
	})

	t.Run("outsider", func(t *testing.T) {
		assert.Nil(t, f.OtherUser(uuid.New()))
	})
}

func TestRequestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusAccepted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func TestFlattenFriends(t *testing.T) {
	me := uuid.New()
	f1 := &Friendship{UserAID: me, UserBID: uuid.New(), UserBName: "B"}
	f2 := &Friendship{UserAID: uuid.New(), UserAName: "C", UserBID: me}

	friends := flattenFriends([]*Friendship{f1, f2}, me)

	require.Len(t, friends, 2)
	assert.Equal(t, "B", friends[0].Name)
	assert.Equal(t, "C", friends[1].Name)
	for _, fr := range friends {
		assert.NotEqual(t, me, fr.ID, "caller must be excluded from the friend list")
	}
}

// --- Service ---

// fakeRepo is an in-memory Repository that acts as its own transaction,
// so Respond runs its transactional path against real state.
type fakeRepo struct {
	Repository

	request        *FriendRequest
	createdRequest *FriendRequest
	friendships    []*Friendship

	// staleReads makes reads report the request as still pending, the
	// view a responder has before a concurrent response commits.
	staleReads bool
}

func (f *fakeRepo) BeginTx(context.Context) (Tx, error) { return f, nil }
func (f *fakeRepo) Commit() error                       { return nil }
func (f *fakeRepo) Rollback() error                     { return nil }

func (f *fakeRepo) CreateRequest(_ context.Context, request *FriendRequest) error {
	f.createdRequest = request
	return nil
}

// GetRequestByID returns a copy, as a database read would.
func (f *fakeRepo) GetRequestByID(_ context.Context, id uuid.UUID) (*FriendRequest, error) {
	if f.request == nil || f.request.ID != id {
		return nil, ErrRequestNotFound
	}
	cp := *f.request
	if f.staleReads {
		cp.Status = StatusPending
		cp.RespondedAt = nil
	}
	return &cp, nil
}

// UpdateRequestStatus mirrors the conditional write: only a still
// pending row may transition.
func (f *fakeRepo) UpdateRequestStatus(_ context.Context, request *FriendRequest) error {
	if f.request == nil || f.request.ID != request.ID || f.request.Status != StatusPending {
		return ErrAlreadyResponded
	}
	f.request.Status = request.Status
	f.request.RespondedAt = request.RespondedAt
	return nil
}

func (f *fakeRepo) CreateFriendship(_ context.Context, friendship *Friendship) error {
	f.friendships = append(f.friendships, friendship)
	return nil
}

func (f *fakeRepo) ListFriendships(_ context.Context, userID uuid.UUID) ([]*Friendship, error) {
	var out []*Friendship
	for _, fr := range f.friendships {
		for _, id := range fr.UserIDs {
			if id == userID.String() {
				out = append(out, fr)
				break
			}
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*User
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func TestSendRequestSnapshotsBothParties(t *testing.T) {
	from := &User{ID: uuid.New(), Email: "alice@x.com", Name: "Alice"}
	to := &User{ID: uuid.New(), Email: "bob@x.com"}
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeUserRepo{users: map[uuid.UUID]*User{from.ID: from, to.ID: to}}, nil, zap.NewNop())

	request, err := svc.SendRequest(context.Background(), from.ID, to.ID)

	require.NoError(t, err)
	assert.Equal(t, StatusPending, request.Status)
	assert.Equal(t, "Alice", request.FromName)
	assert.Equal(t, "bob", request.ToName, "missing profile name falls back to email local part")
	require.NotNil(t, repo.createdRequest)
}

func TestSendRequestToSelf(t *testing.T) {
	me := &User{ID: uuid.New(), Email: "me@x.com"}
	svc := NewService(&fakeRepo{}, &fakeUserRepo{users: map[uuid.UUID]*User{me.ID: me}}, nil, zap.NewNop())

	_, err := svc.SendRequest(context.Background(), me.ID, me.ID)

	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestSendRequestUnknownTarget(t *testing.T) {
	from := &User{ID: uuid.New(), Email: "alice@x.com"}
	svc := NewService(&fakeRepo{}, &fakeUserRepo{users: map[uuid.UUID]*User{from.ID: from}}, nil, zap.NewNop())

	_, err := svc.SendRequest(context.Background(), from.ID, uuid.New())

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSendRequestByEmail(t *testing.T) {
	from := &User{ID: uuid.New(), Email: "alice@x.com", Name: "Alice"}
	to := &User{ID: uuid.New(), Email: "bob@x.com", Name: "Bob"}
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeUserRepo{users: map[uuid.UUID]*User{from.ID: from, to.ID: to}}, nil, zap.NewNop())

	request, err := svc.SendRequestByEmail(context.Background(), from.ID, "bob@x.com")

	require.NoError(t, err)
	assert.Equal(t, to.ID, request.ToID)
}

func TestRespondGuards(t *testing.T) {
	addressee := uuid.New()
	pending := &FriendRequest{ID: uuid.New(), FromID: uuid.New(), ToID: addressee, Status: StatusPending}

	t.Run("invalid decision", func(t *testing.T) {
		svc := NewService(&fakeRepo{request: pending}, &fakeUserRepo{}, nil, zap.NewNop())
		_, err := svc.Respond(context.Background(), pending.ID, addressee, StatusPending)
		assert.ErrorIs(t, err, ErrInvalidDecision)
	})

	t.Run("unknown request", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, &fakeUserRepo{}, nil, zap.NewNop())
		_, err := svc.Respond(context.Background(), uuid.New(), addressee, StatusAccepted)
		assert.ErrorIs(t, err, ErrRequestNotFound)
	})

	t.Run("only addressee may respond", func(t *testing.T) {
		svc := NewService(&fakeRepo{request: pending}, &fakeUserRepo{}, nil, zap.NewNop())
		_, err := svc.Respond(context.Background(), pending.ID, uuid.New(), StatusAccepted)
		assert.ErrorIs(t, err, ErrNotAddressee)
	})

	t.Run("double response", func(t *testing.T) {
		responded := &FriendRequest{ID: uuid.New(), ToID: addressee, Status: StatusAccepted}
		svc := NewService(&fakeRepo{request: responded}, &fakeUserRepo{}, nil, zap.NewNop())
		_, err := svc.Respond(context.Background(), responded.ID, addressee, StatusRejected)
		assert.ErrorIs(t, err, ErrAlreadyResponded)
	})
}

func newPendingRequest(from, to *User) *FriendRequest {
	return &FriendRequest{
		ID:        uuid.New(),
		FromID:    from.ID,
		FromEmail: from.Email,
		FromName:  from.Name,
		ToID:      to.ID,
		ToEmail:   to.Email,
		ToName:    to.Name,
		Status:    StatusPending,
	}
}

func TestRespondAcceptCreatesFriendship(t *testing.T) {
	alice := &User{ID: uuid.New(), Email: "alice@x.com", Name: "Alice"}
	bob := &User{ID: uuid.New(), Email: "bob@x.com", Name: "Bob"}
	repo := &fakeRepo{request: newPendingRequest(alice, bob)}
	svc := NewService(repo, &fakeUserRepo{}, nil, zap.NewNop())

	responded, err := svc.Respond(context.Background(), repo.request.ID, bob.ID, StatusAccepted)

	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, responded.Status)
	require.NotNil(t, responded.RespondedAt)
	require.Len(t, repo.friendships, 1)
	assert.ElementsMatch(t,
		[]string{alice.ID.String(), bob.ID.String()},
		[]string(repo.friendships[0].UserIDs))

	// Each party sees the other exactly once.
	for _, tc := range []struct {
		viewer uuid.UUID
		other  string
	}{
		{alice.ID, "Bob"},
		{bob.ID, "Alice"},
	} {
		friendships, err := repo.ListFriendships(context.Background(), tc.viewer)
		require.NoError(t, err)
		friends := flattenFriends(friendships, tc.viewer)
		require.Len(t, friends, 1)
		assert.Equal(t, tc.other, friends[0].Name)
	}
}

func TestRespondRejectLeavesNoFriendship(t *testing.T) {
	alice := &User{ID: uuid.New(), Email: "alice@x.com", Name: "Alice"}
	bob := &User{ID: uuid.New(), Email: "bob@x.com", Name: "Bob"}
	repo := &fakeRepo{request: newPendingRequest(alice, bob)}
	svc := NewService(repo, &fakeUserRepo{}, nil, zap.NewNop())

	responded, err := svc.Respond(context.Background(), repo.request.ID, bob.ID, StatusRejected)

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, responded.Status)
	assert.Empty(t, repo.friendships)
}

// Two responders that both read the request as pending must not both
// win; the conditional status update decides inside the transaction.
func TestRespondConcurrentAccepts(t *testing.T) {
	alice := &User{ID: uuid.New(), Email: "alice@x.com", Name: "Alice"}
	bob := &User{ID: uuid.New(), Email: "bob@x.com", Name: "Bob"}
	repo := &fakeRepo{request: newPendingRequest(alice, bob), staleReads: true}
	svc := NewService(repo, &fakeUserRepo{}, nil, zap.NewNop())

	_, err := svc.Respond(context.Background(), repo.request.ID, bob.ID, StatusAccepted)
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), repo.request.ID, bob.ID, StatusAccepted)

	assert.ErrorIs(t, err, ErrAlreadyResponded)
	assert.Len(t, repo.friendships, 1, "a second accept must not create another friendship")
}
