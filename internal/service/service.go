// Package service coordinates room operations: it loads a room, applies a
// domain operation, persists the result and then emits events while the
// room is still locked, so every receiver sees one room's events in the
// order its versions were stored.
//
// Visitor and host IDs are opaque and compared byte for byte. They are
// never trimmed; an ID made only of whitespace is rejected as missing.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bingo-rooms/internal/bingo"
	"bingo-rooms/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultCodeAttempts = 10

type Options struct {
	Store       storage.Store
	Broadcaster Broadcaster
	Source      bingo.Source
	Now         func() time.Time
	Log         logrus.FieldLogger
	// CodeAttempts bounds retries when a generated room code is taken.
	CodeAttempts int
	NewCode      func() (string, error)
}

type RoomService struct {
	store        storage.Store
	events       Broadcaster
	src          bingo.Source
	now          func() time.Time
	log          logrus.FieldLogger
	codeAttempts int
	newCode      func() (string, error)
	locks        *roomLocks
}

func New(opts Options) *RoomService {
	s := &RoomService{
		store:        opts.Store,
		events:       opts.Broadcaster,
		src:          opts.Source,
		now:          opts.Now,
		log:          opts.Log,
		codeAttempts: opts.CodeAttempts,
		newCode:      opts.NewCode,
		locks:        newRoomLocks(),
	}
	if s.events == nil {
		s.events = nopBroadcaster{}
	}
	if s.src == nil {
		s.src = bingo.DefaultSource
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.codeAttempts <= 0 {
		s.codeAttempts = defaultCodeAttempts
	}
	if s.newCode == nil {
		s.newCode = newRoomCode
	}
	return s
}

type CreateRoomInput struct {
	Name     string
	HostID   string
	HostName string
	MaxCards int
	Rules    []string
}

// CreateRoom allocates a fresh code and stores a room with the host enrolled.
func (s *RoomService) CreateRoom(ctx context.Context, in CreateRoomInput) (*bingo.Room, error) {
	name := strings.TrimSpace(in.Name)
	hostID := in.HostID
	hostName := strings.TrimSpace(in.HostName)
	switch {
	case name == "":
		return nil, bingo.Errorf(bingo.KindInvalidArgument, "name is required")
	case blank(hostID):
		return nil, bingo.Errorf(bingo.KindInvalidArgument, "hostId is required")
	case hostName == "":
		return nil, bingo.Errorf(bingo.KindInvalidArgument, "hostName is required")
	}
	rules, err := bingo.ParseRules(in.Rules)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < s.codeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}
		room, err := bingo.NewRoom(bingo.RoomParams{
			ID:       "room-" + uuid.NewString(),
			Code:     code,
			Name:     name,
			HostID:   hostID,
			HostName: hostName,
			MaxCards: in.MaxCards,
			Rules:    rules,
		}, s.now())
		if err != nil {
			return nil, err
		}
		err = s.store.Create(ctx, room)
		if errors.Is(err, storage.ErrDuplicate) {
			s.log.WithField("room_code", code).Debug("room code taken, retrying")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create room: %w", err)
		}
		s.log.WithFields(logrus.Fields{
			"room_code": room.Code,
			"room_id":   room.ID,
			"host_id":   room.HostID,
			"max_cards": room.MaxCards,
		}).Info("room created")
		return room, nil
	}
	return nil, fmt.Errorf("allocate room code after %d attempts: %w", s.codeAttempts, storage.ErrDuplicate)
}

func (s *RoomService) GetRoom(ctx context.Context, code string) (*bingo.Room, error) {
	return s.load(ctx, code)
}

// ListRooms returns the active rooms, oldest first.
func (s *RoomService) ListRooms(ctx context.Context) ([]*bingo.Room, error) {
	rooms, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) JoinRoom(ctx context.Context, code, visitorID, nickname string) (*bingo.Room, bingo.Visitor, error) {
	nickname = strings.TrimSpace(nickname)
	if blank(visitorID) || nickname == "" {
		return nil, bingo.Visitor{}, bingo.Errorf(bingo.KindInvalidArgument, "visitorId and nickname are required")
	}
	visitor := bingo.Visitor{VisitorID: visitorID, Nickname: nickname, JoinedAt: s.now().UTC()}

	room, err := s.mutate(ctx, code, func(room *bingo.Room) error {
		if !room.IsActive {
			return bingo.ErrRoomInactive
		}
		return room.AddVisitor(visitor)
	}, func(room *bingo.Room) {
		s.log.WithFields(logrus.Fields{"room_code": code, "visitor_id": visitorID}).Info("visitor joined")
		s.events.Broadcast(room.Code, EventJoinedRoom, RoomPayload{RoomCode: room.Code})
	})
	if err != nil {
		return nil, bingo.Visitor{}, err
	}
	return room, visitor, nil
}

// LeaveRoom removes a visitor. Leaving a room one is not in changes nothing.
func (s *RoomService) LeaveRoom(ctx context.Context, code, visitorID string) (*bingo.Room, error) {
	unlock := s.locks.lock(code)
	defer unlock()

	room, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.IsHost(visitorID) {
		return nil, bingo.ErrHostCannotLeave
	}
	if !room.HasVisitor(visitorID) {
		return room, nil
	}
	room.RemoveVisitor(visitorID)
	if err := s.persist(ctx, room); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"room_code": code, "visitor_id": visitorID}).Info("visitor left")
	s.events.Broadcast(room.Code, EventLeftRoom, RoomPayload{RoomCode: room.Code})
	return room, nil
}

// StartGame deals one card per current visitor.
func (s *RoomService) StartGame(ctx context.Context, code, hostID string) (*bingo.Game, error) {
	room, err := s.mutate(ctx, code, func(room *bingo.Room) error {
		if !room.IsHost(hostID) {
			return bingo.ErrNotHost
		}
		if !room.IsActive {
			return bingo.ErrRoomInactive
		}
		return room.StartGame(s.src, s.now())
	}, func(room *bingo.Room) {
		game := room.Game
		s.log.WithFields(logrus.Fields{
			"room_code": code,
			"game_id":   game.ID,
			"cards":     len(game.Cards),
		}).Info("game started")

		s.events.Broadcast(room.Code, EventGameStarted, GameStartedPayload{Game: summarize(game)})
		for _, card := range game.Cards {
			s.events.SendToVisitor(room.Code, card.OwnerID, CardAssignedEvent(card.OwnerID), CardPayload{Card: card})
		}
	})
	if err != nil {
		return nil, err
	}
	return room.Game, nil
}

type DrawResult struct {
	Number int
	Game   *bingo.Game
}

// DrawNumber draws once and persists the whole room, including card marks
// and any winner.
func (s *RoomService) DrawNumber(ctx context.Context, code, hostID string) (DrawResult, error) {
	var number int
	room, err := s.mutate(ctx, code, func(room *bingo.Room) error {
		if room.Game == nil {
			return bingo.ErrGameNotFound
		}
		if !room.IsHost(hostID) {
			return bingo.ErrNotHost
		}
		n, err := room.Game.DrawNumber(s.src)
		if err != nil {
			return err
		}
		number = n
		return nil
	}, func(room *bingo.Room) {
		s.emitDraw(room, number)
	})
	if err != nil {
		return DrawResult{}, err
	}
	return DrawResult{Number: number, Game: room.Game}, nil
}

func (s *RoomService) emitDraw(room *bingo.Room, number int) {
	game := room.Game
	fields := logrus.Fields{
		"room_code": room.Code,
		"game_id":   game.ID,
		"number":    number,
		"drawn":     len(game.DrawnNumbers),
	}
	s.log.WithFields(fields).Debug("number drawn")

	s.events.Broadcast(room.Code, EventNumberDrawn, NumberDrawnPayload{
		Number:       number,
		DrawnNumbers: append([]int{}, game.DrawnNumbers...),
		Winner:       game.Winner,
		IsFinished:   game.IsFinished,
	})
	for _, card := range game.Cards {
		s.events.SendToVisitor(room.Code, card.OwnerID, CardUpdatedEvent(card.OwnerID), CardPayload{Card: card})
	}
	if game.IsFinished && game.Winner != nil {
		s.log.WithFields(fields).WithFields(logrus.Fields{
			"winner":       *game.Winner,
			"winning_rule": game.WinningRule,
		}).Info("game won")
		s.events.Broadcast(room.Code, EventBingoWon, BingoWonPayload{
			Winner:     *game.Winner,
			WinnerName: game.WinnerName,
		})
	}
}

// ValidateBingo checks a claim without changing the room.
func (s *RoomService) ValidateBingo(ctx context.Context, code, cardID, visitorID string) (bool, error) {
	unlock := s.locks.lock(code)
	defer unlock()

	room, err := s.load(ctx, code)
	if err != nil {
		return false, err
	}
	game := room.Game
	if game == nil {
		return false, bingo.ErrGameNotFound
	}
	if game.IsFinished {
		return false, bingo.ErrGameAlreadyOver
	}
	card, ok := game.CardByID(cardID)
	if !ok {
		return false, bingo.ErrCardNotFound
	}
	if card.OwnerID != visitorID {
		return false, bingo.ErrCardNotOwned
	}
	if len(game.DrawnNumbers) == 0 {
		return false, bingo.ErrNoDrawsYet
	}

	valid := game.ValidateBingo(cardID)
	log := s.log.WithFields(logrus.Fields{
		"room_code":  code,
		"card_id":    cardID,
		"visitor_id": visitorID,
		"valid":      valid,
	})
	if valid {
		log.Info("bingo claim validated")
		s.events.Broadcast(room.Code, EventBingoValidated, BingoValidatedPayload{
			CardID:     cardID,
			VisitorID:  visitorID,
			IsValid:    true,
			WinnerName: card.OwnerName,
		})
		return true, nil
	}
	log.Info("bingo claim rejected")
	s.events.Broadcast(room.Code, EventBingoInvalid, BingoInvalidPayload{
		CardID:    cardID,
		VisitorID: visitorID,
		Message:   invalidBingoMessage,
	})
	return false, nil
}

// EndGame discards the current game so a new one can start.
func (s *RoomService) EndGame(ctx context.Context, code, hostID string) (*bingo.Room, error) {
	room, err := s.mutate(ctx, code, func(room *bingo.Room) error {
		if !room.IsHost(hostID) {
			return bingo.ErrNotHost
		}
		return room.EndGame()
	}, func(room *bingo.Room) {
		s.log.WithFields(logrus.Fields{"room_code": code, "host_id": hostID}).Info("game ended")
		s.events.Broadcast(room.Code, EventGameEnded, RoomPayload{RoomCode: room.Code})
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// CloseRoom deactivates a room. Closed rooms keep their state but refuse
// joins and new games.
func (s *RoomService) CloseRoom(ctx context.Context, code, hostID string) (*bingo.Room, error) {
	room, err := s.mutate(ctx, code, func(room *bingo.Room) error {
		if !room.IsHost(hostID) {
			return bingo.ErrNotHost
		}
		if !room.IsActive {
			return bingo.ErrRoomInactive
		}
		room.Deactivate()
		return nil
	}, func(room *bingo.Room) {
		s.log.WithFields(logrus.Fields{"room_code": code, "host_id": hostID}).Info("room closed")
		s.events.Broadcast(room.Code, EventRoomClosed, RoomPayload{RoomCode: room.Code})
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, code, hostID string) error {
	unlock := s.locks.lock(code)
	defer unlock()

	room, err := s.load(ctx, code)
	if err != nil {
		return err
	}
	if !room.IsHost(hostID) {
		return bingo.ErrNotHost
	}
	if err := s.store.Delete(ctx, code); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return bingo.ErrRoomNotFound
		}
		return fmt.Errorf("delete room %s: %w", code, err)
	}
	s.log.WithFields(logrus.Fields{"room_code": code, "host_id": hostID}).Info("room deleted")
	s.events.Broadcast(code, EventRoomDeleted, RoomPayload{RoomCode: code})
	return nil
}

// mutate serializes work on one room: load, apply, persist, emit. Nothing is
// stored or emitted when apply fails. emit runs before the lock is released.
func (s *RoomService) mutate(ctx context.Context, code string, apply func(*bingo.Room) error, emit func(*bingo.Room)) (*bingo.Room, error) {
	unlock := s.locks.lock(code)
	defer unlock()

	room, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := apply(room); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, room); err != nil {
		return nil, err
	}
	emit(room)
	return room, nil
}

func blank(id string) bool {
	return strings.TrimSpace(id) == ""
}

func (s *RoomService) load(ctx context.Context, code string) (*bingo.Room, error) {
	room, err := s.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, bingo.ErrRoomNotFound
		}
		return nil, fmt.Errorf("load room %s: %w", code, err)
	}
	return room, nil
}

func (s *RoomService) persist(ctx context.Context, room *bingo.Room) error {
	err := s.store.Update(ctx, room)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return bingo.ErrRoomNotFound
	case errors.Is(err, storage.ErrConflict):
		s.log.WithField("room_code", room.Code).Warn("room changed concurrently")
		return fmt.Errorf("save room %s: %w", room.Code, err)
	default:
		return fmt.Errorf("save room %s: %w", room.Code, err)
	}
}
