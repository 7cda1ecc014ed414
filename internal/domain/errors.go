package domain

import "errors"

var (
	ErrRoomNotFound            = errors.New("room not found")
	ErrRoomNotAcceptingPlayers = errors.New("room is not accepting players")
	ErrRoomFull                = errors.New("room is full")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrPlayersNotReady         = errors.New("players not ready")
	ErrNotAuthenticated        = errors.New("not authenticated")
	ErrInvalidMaxPlayers       = errors.New("max players out of range")

	ErrNameEmpty   = errors.New("display name empty")
	ErrNameTooLong = errors.New("display name too long")
)
