package bingo

import (
	"errors"
	"testing"
)

func newTestRoom(t *testing.T, maxCards int, rules ...Rule) *Room {
	t.Helper()
	if len(rules) == 0 {
		rules = []Rule{RuleLine}
	}
	room, err := NewRoom(RoomParams{
		ID:       "room-1",
		Code:     "ABC234",
		Name:     "Friday",
		HostID:   "h1",
		HostName: "Host",
		MaxCards: maxCards,
		Rules:    rules,
	}, testNow)
	if err != nil {
		t.Fatalf("new room: %v", err)
	}
	return room
}

func TestNewRoomEnrollsHost(t *testing.T) {
	room := newTestRoom(t, 4)
	if !room.IsActive || room.Game != nil {
		t.Fatalf("expected active room without game, got %#v", room)
	}
	if len(room.Visitors) != 1 || room.Visitors[0].VisitorID != "h1" || room.Visitors[0].Nickname != "Host" {
		t.Fatalf("expected host as sole visitor, got %#v", room.Visitors)
	}
	if !room.IsHost("h1") || room.IsHost("v2") {
		t.Fatalf("unexpected host check result")
	}
	if !room.CreatedAt.Equal(testNow) {
		t.Fatalf("expected created at %v, got %v", testNow, room.CreatedAt)
	}
}

func TestNewRoomValidatesParams(t *testing.T) {
	cases := []RoomParams{
		{HostID: "h1", MaxCards: 0, Rules: []Rule{RuleLine}},
		{HostID: "h1", MaxCards: MaxCards + 1, Rules: []Rule{RuleLine}},
		{HostID: "h1", MaxCards: 5},
		{HostID: "h1", MaxCards: 5, Rules: []Rule{"diagonal"}},
	}
	for i, p := range cases {
		if _, err := NewRoom(p, testNow); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("case %d: expected invalid argument, got %v", i, err)
		}
	}
}

func TestAddVisitorCapacity(t *testing.T) {
	room := newTestRoom(t, 2)
	if err := room.AddVisitor(Visitor{VisitorID: "v2", Nickname: "Ada"}); err != nil {
		t.Fatalf("add visitor: %v", err)
	}
	if err := room.AddVisitor(Visitor{VisitorID: "v3", Nickname: "Bob"}); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("expected room full, got %v", err)
	}
	if len(room.Visitors) != 2 {
		t.Fatalf("expected 2 visitors, got %d", len(room.Visitors))
	}
}

func TestAddVisitorRejectsDuplicate(t *testing.T) {
	room := newTestRoom(t, 5)
	if err := room.AddVisitor(Visitor{VisitorID: "h1", Nickname: "Again"}); !errors.Is(err, ErrVisitorAlreadyPresent) {
		t.Fatalf("expected visitor already present, got %v", err)
	}
}

func TestSingleCardRoomIsFullAtCreation(t *testing.T) {
	room := newTestRoom(t, 1)
	if err := room.AddVisitor(Visitor{VisitorID: "v2"}); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("expected room full, got %v", err)
	}
}

func TestRemoveVisitor(t *testing.T) {
	room := newTestRoom(t, 5)
	_ = room.AddVisitor(Visitor{VisitorID: "v2"})
	_ = room.AddVisitor(Visitor{VisitorID: "v3"})
	room.RemoveVisitor("v2")
	room.RemoveVisitor("missing")
	if len(room.Visitors) != 2 || room.Visitors[0].VisitorID != "h1" || room.Visitors[1].VisitorID != "v3" {
		t.Fatalf("unexpected visitors after removal %#v", room.Visitors)
	}
	if room.HasVisitor("v2") {
		t.Fatalf("expected v2 to be gone")
	}
}

func TestStartGameDealsCardsInJoinOrder(t *testing.T) {
	room := newTestRoom(t, 5, RuleFull, RuleLine)
	_ = room.AddVisitor(Visitor{VisitorID: "v2", Nickname: "Ada"})
	if err := room.StartGame(NewSeededSource(3), testNow); err != nil {
		t.Fatalf("start game: %v", err)
	}
	game := room.Game
	if game == nil || len(game.Cards) != 2 {
		t.Fatalf("expected game with 2 cards, got %#v", game)
	}
	if game.Cards[0].OwnerID != "h1" || game.Cards[1].OwnerID != "v2" {
		t.Fatalf("expected cards for h1 then v2, got %s, %s", game.Cards[0].OwnerID, game.Cards[1].OwnerID)
	}
	if game.RoomID != room.ID {
		t.Fatalf("expected game room id %s, got %s", room.ID, game.RoomID)
	}
	if len(game.Rules) != 2 || game.Rules[0] != RuleFull || game.Rules[1] != RuleLine {
		t.Fatalf("expected room rules copied, got %v", game.Rules)
	}
	if err := room.StartGame(NewSeededSource(3), testNow); !errors.Is(err, ErrGameAlreadyInProgress) {
		t.Fatalf("expected game already in progress, got %v", err)
	}
}

func TestStartGameWithoutVisitors(t *testing.T) {
	room := newTestRoom(t, 5)
	room.RemoveVisitor("h1")
	if err := room.StartGame(NewSeededSource(1), testNow); !errors.Is(err, ErrNoVisitors) {
		t.Fatalf("expected no visitors, got %v", err)
	}
}

func TestJoinDuringGameGetsNoCard(t *testing.T) {
	room := newTestRoom(t, 5)
	if err := room.StartGame(NewSeededSource(1), testNow); err != nil {
		t.Fatalf("start game: %v", err)
	}
	if err := room.AddVisitor(Visitor{VisitorID: "late"}); err != nil {
		t.Fatalf("add visitor: %v", err)
	}
	if _, ok := room.Game.CardByOwner("late"); ok {
		t.Fatalf("expected late visitor to have no card")
	}
	if len(room.Game.Cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(room.Game.Cards))
	}
}

func TestEndGame(t *testing.T) {
	room := newTestRoom(t, 5)
	if err := room.EndGame(); !errors.Is(err, ErrNoGameInProgress) {
		t.Fatalf("expected no game in progress, got %v", err)
	}
	if err := room.StartGame(NewSeededSource(1), testNow); err != nil {
		t.Fatalf("start game: %v", err)
	}
	if err := room.EndGame(); err != nil {
		t.Fatalf("end game: %v", err)
	}
	if room.Game != nil || !room.IsActive {
		t.Fatalf("expected active room without game")
	}
	if err := room.StartGame(NewSeededSource(2), testNow); err != nil {
		t.Fatalf("restart game: %v", err)
	}
}

func TestKindOfWrappedError(t *testing.T) {
	err := errors.Join(errors.New("context"), ErrRoomFull)
	if KindOf(err) != KindRoomFull {
		t.Fatalf("expected room full kind, got %q", KindOf(err))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("expected empty kind for plain error")
	}
	custom := Errorf(KindRoomFull, "room ABC234 is full")
	if !errors.Is(custom, ErrRoomFull) {
		t.Fatalf("expected custom message error to match by kind")
	}
}
