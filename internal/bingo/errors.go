package bingo

import "errors"

// Kind is a machine-readable error kind.
type Kind string

const (
	KindRoomNotFound          Kind = "ROOM_NOT_FOUND"
	KindRoomFull              Kind = "ROOM_FULL"
	KindRoomInactive          Kind = "ROOM_INACTIVE"
	KindVisitorAlreadyPresent Kind = "VISITOR_ALREADY_PRESENT"
	KindNotHost               Kind = "NOT_HOST"
	KindHostCannotLeave       Kind = "HOST_CANNOT_LEAVE"
	KindGameAlreadyInProgress Kind = "GAME_ALREADY_IN_PROGRESS"
	KindNoVisitors            Kind = "NO_VISITORS"
	KindNoGameInProgress      Kind = "NO_GAME_IN_PROGRESS"
	KindGameNotFound          Kind = "GAME_NOT_FOUND"
	KindGameAlreadyFinished   Kind = "GAME_ALREADY_FINISHED"
	KindNoNumbersRemaining    Kind = "NO_NUMBERS_REMAINING"
	KindGameAlreadyOver       Kind = "GAME_ALREADY_OVER"
	KindCardNotFound          Kind = "CARD_NOT_FOUND"
	KindCardNotOwned          Kind = "CARD_NOT_OWNED"
	KindNoDrawsYet            Kind = "NO_DRAWS_YET"
	KindInvalidArgument       Kind = "INVALID_ARGUMENT"
)

// Error is a user-facing domain failure. Two errors match under errors.Is
// when their kinds are equal, so callers compare against the Err* values.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target carries the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Errorf builds an error of the given kind with a custom message.
func Errorf(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrRoomNotFound          = Errorf(KindRoomNotFound, "room not found")
	ErrRoomFull              = Errorf(KindRoomFull, "room is full")
	ErrRoomInactive          = Errorf(KindRoomInactive, "room is not active")
	ErrVisitorAlreadyPresent = Errorf(KindVisitorAlreadyPresent, "visitor already in room")
	ErrNotHost               = Errorf(KindNotHost, "only the host can do that")
	ErrHostCannotLeave       = Errorf(KindHostCannotLeave, "host cannot leave the room")
	ErrGameAlreadyInProgress = Errorf(KindGameAlreadyInProgress, "game already in progress")
	ErrNoVisitors            = Errorf(KindNoVisitors, "no visitors in room")
	ErrNoGameInProgress      = Errorf(KindNoGameInProgress, "no game in progress")
	ErrGameNotFound          = Errorf(KindGameNotFound, "game not found")
	ErrGameAlreadyFinished   = Errorf(KindGameAlreadyFinished, "game already finished")
	ErrNoNumbersRemaining    = Errorf(KindNoNumbersRemaining, "all numbers have been drawn")
	ErrGameAlreadyOver       = Errorf(KindGameAlreadyOver, "game is already over")
	ErrCardNotFound          = Errorf(KindCardNotFound, "card not found")
	ErrCardNotOwned          = Errorf(KindCardNotOwned, "card does not belong to visitor")
	ErrNoDrawsYet            = Errorf(KindNoDrawsYet, "no numbers have been drawn yet")
	ErrInvalidArgument       = Errorf(KindInvalidArgument, "invalid argument")
)

// KindOf returns the kind of a domain error, or "" for anything else.
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return ""
}
