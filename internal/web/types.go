package web

import "time"

type RoomSummary struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	HostName  string    `json:"hostName"`
	Players   int       `json:"players"`
	MaxCards  int       `json:"maxCards"`
	Playing   bool      `json:"playing"`
	CreatedAt time.Time `json:"createdAt"`
}

type BoardVisitor struct {
	Nickname string
	IsHost   bool
	HasCard  bool
	JoinedAt time.Time
}

// BoardData is the read-only view of a room shown on the board page.
type BoardData struct {
	Code         string
	Name         string
	HostName     string
	Rules        []string
	IsActive     bool
	HasGame      bool
	DrawnNumbers []int
	IsFinished   bool
	WinnerName   string
	WinningRule  string
	Visitors     []BoardVisitor
}

// LastNumber returns the most recent draw, or 0 before the first one.
func (d BoardData) LastNumber() int {
	if len(d.DrawnNumbers) == 0 {
		return 0
	}
	return d.DrawnNumbers[len(d.DrawnNumbers)-1]
}
