package service

import (
	"time"

	"bingo-rooms/internal/bingo"
)

const (
	EventJoinedRoom     = "joined-room"
	EventLeftRoom       = "left-room"
	EventGameStarted    = "game-started"
	EventNumberDrawn    = "number-drawn"
	EventBingoWon       = "bingo-won"
	EventBingoValidated = "bingo-validated"
	EventBingoInvalid   = "bingo-invalid"
	EventGameEnded      = "game-ended"
	EventRoomClosed     = "room-closed"
	EventRoomDeleted    = "room-deleted"

	invalidBingoMessage = "Invalid bingo. Check that you completed a line, a column or the full card."
)

// CardAssignedEvent is sent to a card owner when a game starts.
func CardAssignedEvent(ownerID string) string {
	return "card-assigned-" + ownerID
}

// CardUpdatedEvent is sent to a card owner after every draw.
func CardUpdatedEvent(ownerID string) string {
	return "card-updated-" + ownerID
}

type RoomPayload struct {
	RoomCode string `json:"roomCode"`
}

type GameSummary struct {
	ID           string    `json:"id"`
	DrawnNumbers []int     `json:"drawnNumbers"`
	IsFinished   bool      `json:"isFinished"`
	StartedAt    time.Time `json:"startedAt"`
}

type GameStartedPayload struct {
	Game GameSummary `json:"game"`
}

type CardPayload struct {
	Card *bingo.Card `json:"card"`
}

type NumberDrawnPayload struct {
	Number       int     `json:"number"`
	DrawnNumbers []int   `json:"drawnNumbers"`
	Winner       *string `json:"winner"`
	IsFinished   bool    `json:"isFinished"`
}

type BingoWonPayload struct {
	Winner     string `json:"winner"`
	WinnerName string `json:"winnerName"`
}

type BingoValidatedPayload struct {
	CardID     string `json:"cardId"`
	VisitorID  string `json:"visitorId"`
	IsValid    bool   `json:"isValid"`
	WinnerName string `json:"winnerName"`
}

type BingoInvalidPayload struct {
	CardID    string `json:"cardId"`
	VisitorID string `json:"visitorId"`
	Message   string `json:"message"`
}

func summarize(game *bingo.Game) GameSummary {
	return GameSummary{
		ID:           game.ID,
		DrawnNumbers: append([]int{}, game.DrawnNumbers...),
		IsFinished:   game.IsFinished,
		StartedAt:    game.StartedAt,
	}
}
