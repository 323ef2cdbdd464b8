package game

import "errors"

var (
	ErrRoomNotFound       = errors.New("room-not-found")
	ErrRoomFull           = errors.New("room-full")
	ErrGameAlreadyStarted = errors.New("game-already-started")
	ErrGameNotInProgress  = errors.New("game-not-in-progress")
	ErrNotHost            = errors.New("not-host")
	ErrNotAMember         = errors.New("not-a-member")
	ErrAnswerWindowClosed = errors.New("answer-window-closed")
	ErrInvalidMaxPlayers  = errors.New("invalid-max-players")
)
