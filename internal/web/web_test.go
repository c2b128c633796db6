package web

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestActiveRoomsListEscapes(t *testing.T) {
	html := render(t, ActiveRoomsList([]RoomSummary{{
		Code:     "ABC234",
		Name:     "<script>alert(1)</script>",
		HostName: "Ada",
		Players:  2,
		MaxCards: 5,
		Playing:  true,
	}}))
	if strings.Contains(html, "<script>alert") {
		t.Fatalf("expected room name to be escaped, got %s", html)
	}
	if !strings.Contains(html, `href="/rooms/ABC234"`) || !strings.Contains(html, "2/5") || !strings.Contains(html, "playing") {
		t.Fatalf("unexpected list %s", html)
	}
}

func TestActiveRoomsListEmpty(t *testing.T) {
	if html := render(t, ActiveRoomsList(nil)); !strings.Contains(html, "No open rooms") {
		t.Fatalf("expected empty message, got %s", html)
	}
}

func TestHomeIncludesRoomList(t *testing.T) {
	html := render(t, Home([]RoomSummary{{Code: "ABC234", Name: "Friday", MaxCards: 3}}))
	if !strings.Contains(html, "Friday") || !strings.Contains(html, `id="createForm"`) {
		t.Fatalf("unexpected home page")
	}
}

func TestBoardMarksDrawnNumbers(t *testing.T) {
	html := render(t, Board(BoardData{
		Code:         "ABC234",
		Name:         "Friday",
		HostName:     "Host",
		Rules:        []string{"line"},
		IsActive:     true,
		HasGame:      true,
		DrawnNumbers: []int{12, 40},
		IsFinished:   true,
		WinnerName:   "Ada",
		WinningRule:  "line",
		Visitors: []BoardVisitor{
			{Nickname: "Host", IsHost: true, HasCard: true, JoinedAt: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)},
			{Nickname: "Late", JoinedAt: time.Date(2026, 3, 14, 18, 5, 0, 0, time.UTC)},
		},
	}))
	for _, want := range []string{
		`<span class="drawn">12</span>`,
		`<span class="drawn">40</span>`,
		`<p class="last">40</p>`,
		"Ada wins with a line",
		"Host (host)",
		"waiting for next game",
		"2026-03-14 18:05",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected board to contain %q", want)
		}
	}
	if strings.Contains(html, `<span class="drawn">13</span>`) {
		t.Fatalf("expected 13 to be undrawn")
	}
}

func TestBoardWithoutGame(t *testing.T) {
	html := render(t, Board(BoardData{Code: "ABC234", Name: "Friday", IsActive: false}))
	if !strings.Contains(html, "Waiting for the host") || !strings.Contains(html, "room is closed") {
		t.Fatalf("unexpected board %s", html)
	}
}
