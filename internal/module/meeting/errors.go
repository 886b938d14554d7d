package meeting

import "errors"

// Module errors.
var (
	// Meeting errors
	ErrMeetingNotFound = errors.New("meeting not found")
	ErrNotHost         = errors.New("only the host may perform this action")

	// Membership errors
	ErrAlreadyParticipant = errors.New("already a participant")
	ErrHostCannotLeave    = errors.New("host cannot leave the meeting")
	ErrNotInvited         = errors.New("an invitation is required to join")
	ErrInviteeNotFound    = errors.New("invitee not found")

	// Invite validation errors
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("email is not valid")
	ErrCannotInviteSelf = errors.New("cannot invite yourself")
	ErrAlreadyInvited   = errors.New("email is already invited")
	ErrUserNotFound     = errors.New("no user with that email")
)
