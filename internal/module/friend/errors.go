package friend

import "errors"

// Module errors.
var (
	ErrRequestNotFound  = errors.New("friend request not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrNotAddressee     = errors.New("only the addressee may respond")
	ErrAlreadyResponded = errors.New("request has already been responded to")
	ErrInvalidDecision  = errors.New("decision must be accepted or rejected")
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
)
