package roomerrors

import "errors"

// Room and membership sentinel errors. Used by both room and ws packages
// to avoid circular imports.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomClosed     = errors.New("room is closed")
	ErrRoomBusy       = errors.New("room is busy, try again")
	ErrNotInRoom      = errors.New("you are not in a room")
	ErrAlreadyInRoom  = errors.New("you are already in a room")
	ErrNotOwner       = errors.New("only the room owner can do that")
	ErrNotAllReady    = errors.New("not every player is ready")
	ErrInvalidToken   = errors.New("invalid rejoin token")
	ErrInvalidName    = errors.New("invalid player name")
	ErrAuthRequired   = errors.New("authentication required")
	ErrUnknownRequest = errors.New("unknown request type")
)
