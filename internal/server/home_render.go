package server

import (
	"bytes"
	"context"

	"bingo-rooms/internal/bingo"
	"bingo-rooms/internal/web"
)

func (s *Server) renderRoomListHTML(ctx context.Context) string {
	var buf bytes.Buffer
	if err := web.ActiveRoomsList(s.roomSummaries(ctx)).Render(ctx, &buf); err != nil {
		s.log.WithError(err).Warn("render room list failed")
		return ""
	}
	return buf.String()
}

func summarizeRooms(rooms []*bingo.Room) []web.RoomSummary {
	out := make([]web.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, web.RoomSummary{
			Code:      room.Code,
			Name:      room.Name,
			HostName:  room.HostName,
			Players:   len(room.Visitors),
			MaxCards:  room.MaxCards,
			Playing:   room.Game != nil && !room.Game.IsFinished,
			CreatedAt: room.CreatedAt,
		})
	}
	return out
}

func boardData(room *bingo.Room) web.BoardData {
	data := web.BoardData{
		Code:     room.Code,
		Name:     room.Name,
		HostName: room.HostName,
		IsActive: room.IsActive,
		Rules:    make([]string, 0, len(room.Rules)),
		Visitors: make([]web.BoardVisitor, 0, len(room.Visitors)),
	}
	for _, rule := range room.Rules {
		data.Rules = append(data.Rules, string(rule))
	}
	game := room.Game
	for _, v := range room.Visitors {
		hasCard := false
		if game != nil {
			_, hasCard = game.CardByOwner(v.VisitorID)
		}
		data.Visitors = append(data.Visitors, web.BoardVisitor{
			Nickname: v.Nickname,
			IsHost:   room.IsHost(v.VisitorID),
			HasCard:  hasCard,
			JoinedAt: v.JoinedAt,
		})
	}
	if game != nil {
		data.HasGame = true
		data.DrawnNumbers = append([]int{}, game.DrawnNumbers...)
		data.IsFinished = game.IsFinished
		data.WinnerName = game.WinnerName
		data.WinningRule = string(game.WinningRule)
	}
	return data
}
