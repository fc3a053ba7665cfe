package room

import "fmt"

// ErrorKind classifies state-machine failures so the transport boundary can
// pick a status code without string matching.
type ErrorKind int

const (
	KindValidation ErrorKind = iota // malformed input
	KindNotFound                    // room/board/session absent
	KindConflict                    // state precondition failed
	KindForbidden                   // authorization failure
	KindExhausted                   // code generation retries exhausted
	KindAuth                        // session invalid or expired
)

// Error is a state-machine failure surfaced to the originating actor. It
// never propagates to other room members.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewError builds an Error with the given kind.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrRoomNotFound     = &Error{KindNotFound, "Room not found"}
	ErrRoomFull         = &Error{KindConflict, "Room is full"}
	ErrNoActiveRoom     = &Error{KindNotFound, "No active room found"}
	ErrNotCreator       = &Error{KindForbidden, "Only the room creator can start the game"}
	ErrNotEnoughPlayers = &Error{KindConflict, "You need 2 players to start the game"}
	ErrAlreadyStarted   = &Error{KindConflict, "Game already started or finished"}
	ErrGameNotFound     = &Error{KindNotFound, "Game not found."}
	ErrGameNotActive    = &Error{KindConflict, "Game is not active."}
	ErrNotYourTurn      = &Error{KindConflict, "Not your turn."}
	ErrCellTaken        = &Error{KindConflict, "Square already taken."}
	ErrExhaustedRetries = &Error{KindExhausted, "Failed to create a unique room code after multiple attempts."}
)

// ErrNotJoinable reports a join attempt against a room that is not waiting.
func ErrNotJoinable(status string) *Error {
	return NewError(KindConflict, "Cannot join, room status is %s", status)
}
