package bingo

import "time"

const (
	MinCards = 1
	MaxCards = 50
)

// Room is a code-addressable session container. The host is enrolled as
// the first visitor when the room is created.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HostID    string    `json:"hostId"`
	HostName  string    `json:"hostName"`
	Code      string    `json:"code"`
	MaxCards  int       `json:"maxCards"`
	Rules     []Rule    `json:"rules"`
	Visitors  []Visitor `json:"visitors"`
	Game      *Game     `json:"game"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int64     `json:"version"`
}

type RoomParams struct {
	ID       string
	Code     string
	Name     string
	HostID   string
	HostName string
	MaxCards int
	Rules    []Rule
}

func NewRoom(p RoomParams, now time.Time) (*Room, error) {
	if p.MaxCards < MinCards || p.MaxCards > MaxCards {
		return nil, Errorf(KindInvalidArgument, "maxCards must be between 1 and 50")
	}
	if len(p.Rules) == 0 {
		return nil, Errorf(KindInvalidArgument, "at least one rule is required")
	}
	for _, rule := range p.Rules {
		if !rule.Valid() {
			return nil, Errorf(KindInvalidArgument, "unknown rule "+string(rule))
		}
	}
	now = now.UTC()
	return &Room{
		ID:       p.ID,
		Name:     p.Name,
		HostID:   p.HostID,
		HostName: p.HostName,
		Code:     p.Code,
		MaxCards: p.MaxCards,
		Rules:    append([]Rule(nil), p.Rules...),
		Visitors: []Visitor{{
			VisitorID: p.HostID,
			Nickname:  p.HostName,
			JoinedAt:  now,
		}},
		IsActive:  true,
		CreatedAt: now,
	}, nil
}

func (r *Room) IsHost(visitorID string) bool {
	return r.HostID == visitorID
}

func (r *Room) HasVisitor(visitorID string) bool {
	for _, v := range r.Visitors {
		if v.VisitorID == visitorID {
			return true
		}
	}
	return false
}

func (r *Room) AddVisitor(v Visitor) error {
	if len(r.Visitors) >= r.MaxCards {
		return ErrRoomFull
	}
	if r.HasVisitor(v.VisitorID) {
		return ErrVisitorAlreadyPresent
	}
	r.Visitors = append(r.Visitors, v)
	return nil
}

func (r *Room) RemoveVisitor(visitorID string) {
	kept := r.Visitors[:0]
	for _, v := range r.Visitors {
		if v.VisitorID != visitorID {
			kept = append(kept, v)
		}
	}
	r.Visitors = kept
}

// StartGame deals cards to the current visitors using the room rules.
func (r *Room) StartGame(src Source, now time.Time) error {
	if r.Game != nil {
		return ErrGameAlreadyInProgress
	}
	if len(r.Visitors) == 0 {
		return ErrNoVisitors
	}
	r.Game = NewGame(src, r.ID, r.Visitors, r.Rules, now)
	return nil
}

// EndGame discards the current game. The room stays active.
func (r *Room) EndGame() error {
	if r.Game == nil {
		return ErrNoGameInProgress
	}
	r.Game = nil
	return nil
}

func (r *Room) Deactivate() {
	r.IsActive = false
}
