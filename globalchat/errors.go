package globalchat

import "errors"

// Failure reasons surfaced to the command layer. These are descriptive
// by design: handlers show err.Error() to the acting user instead of a
// bare rejection.
var (
	ErrChannelNotFound = errors.New("global channel not found")
	ErrNoAccess        = errors.New("you do not have access to perform this action")
	ErrNotLinked       = errors.New("this server is not linked to the global channel")
	ErrAlreadyLinked   = errors.New("this channel is already linked to another global channel")
	ErrBanned          = errors.New("this server is banned from the global channel")
	ErrWrongKey        = errors.New("the supplied key does not match")
	ErrKeyRequired     = errors.New("this global channel requires a key to join")
	ErrNotMuted        = errors.New("this server is not muted")
	ErrNotBanned       = errors.New("this server is not banned")
	ErrNoWarnings      = errors.New("this server has no warnings to remove")
	ErrNoSession       = errors.New("no management session in progress")
	ErrOwnerOnly       = errors.New("only the channel owner can do this")
)
