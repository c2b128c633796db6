package server

import (
	"encoding/json"
	"net/http"
	"time"

	"bingo-rooms/internal/bingo"
	"bingo-rooms/internal/service"

	"github.com/gin-gonic/gin"
)

type createRoomRequest struct {
	Name     string   `json:"name" binding:"required,roomname"`
	HostID   string   `json:"hostId" binding:"required,max=64"`
	HostName string   `json:"hostName" binding:"required,nickname"`
	MaxCards int      `json:"maxCards" binding:"required,min=1,max=50"`
	Rules    []string `json:"rules" binding:"required,rules"`
}

type joinRoomRequest struct {
	RoomCode  string `json:"roomCode" binding:"omitempty,roomcode"`
	VisitorID string `json:"visitorId" binding:"required,max=64"`
	Nickname  string `json:"nickname" binding:"required,nickname"`
}

type visitorRequest struct {
	VisitorID string `json:"visitorId" binding:"required,max=64"`
}

type hostRequest struct {
	HostID string `json:"hostId" form:"hostId" binding:"required,max=64"`
}

type validateBingoRequest struct {
	CardID    string `json:"cardId" binding:"required,max=64"`
	VisitorID string `json:"visitorId" binding:"required,max=64"`
}

var createRoomMessages = bindMessages{
	"Name":     {"required": "name is required", "roomname": "name must be 1-60 letters, digits or simple punctuation"},
	"HostID":   {"required": "hostId is required", "max": "hostId is too long"},
	"HostName": {"required": "hostName is required", "nickname": "hostName must be 1-32 letters, digits or simple punctuation"},
	"MaxCards": {"required": "maxCards must be between 1 and 50", "min": "maxCards must be between 1 and 50", "max": "maxCards must be between 1 and 50"},
	"Rules":    {"required": "at least one rule is required", "rules": "rules must be any of full, line, column"},
}

var joinRoomMessages = bindMessages{
	"RoomCode":  {"roomcode": "roomCode must be 6 letters or digits"},
	"VisitorID": {"required": "visitorId is required", "max": "visitorId is too long"},
	"Nickname":  {"required": "nickname is required", "nickname": "nickname must be 1-32 letters, digits or simple punctuation"},
}

var visitorMessages = bindMessages{
	"VisitorID": {"required": "visitorId is required"},
}

var hostMessages = bindMessages{
	"HostID": {"required": "hostId is required"},
}

var validateBingoMessages = bindMessages{
	"CardID":    {"required": "cardId is required"},
	"VisitorID": {"required": "visitorId is required"},
}

type roomResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Code      string       `json:"code"`
	HostID    string       `json:"hostId"`
	HostName  string       `json:"hostName"`
	MaxCards  int          `json:"maxCards"`
	Rules     []bingo.Rule `json:"rules"`
	IsActive  bool         `json:"isActive"`
	CreatedAt time.Time    `json:"createdAt"`
}

func newRoomResponse(room *bingo.Room) roomResponse {
	return roomResponse{
		ID:        room.ID,
		Name:      room.Name,
		Code:      room.Code,
		HostID:    room.HostID,
		HostName:  room.HostName,
		MaxCards:  room.MaxCards,
		Rules:     room.Rules,
		IsActive:  room.IsActive,
		CreatedAt: room.CreatedAt,
	}
}

func (s *Server) handleListRooms(c *gin.Context) {
	rooms, err := s.rooms.ListRooms(c.Request.Context())
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": summarizeRooms(rooms)})
}

func (s *Server) handleCreateRoom(c *gin.Context) {
	var req createRoomRequest
	if !bindJSON(c, &req, createRoomMessages, "invalid room") {
		return
	}
	room, err := s.rooms.CreateRoom(c.Request.Context(), service.CreateRoomInput{
		Name:     normalizeText(req.Name),
		HostID:   req.HostID,
		HostName: normalizeText(req.HostName),
		MaxCards: req.MaxCards,
		Rules:    req.Rules,
	})
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	go s.broadcastHomeUpdate()
	c.JSON(http.StatusCreated, newRoomResponse(room))
}

// handleGetRoom returns the full room including the current game and cards.
func (s *Server) handleGetRoom(c *gin.Context) {
	room, err := s.rooms.GetRoom(c.Request.Context(), normalizeCode(c.Param("code")))
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// handleJoinRoom serves both /rooms/join with the code in the body and
// /rooms/:code/join.
func (s *Server) handleJoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if !bindJSON(c, &req, joinRoomMessages, "invalid join request") {
		return
	}
	code := c.Param("code")
	if code == "" {
		code = req.RoomCode
	}
	code = normalizeCode(code)
	if !validRoomCode(code) {
		writeError(c, http.StatusBadRequest, "roomCode must be 6 letters or digits")
		return
	}
	room, visitor, err := s.rooms.JoinRoom(c.Request.Context(), code, req.VisitorID, normalizeText(req.Nickname))
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room": gin.H{
			"id":       room.ID,
			"name":     room.Name,
			"code":     room.Code,
			"visitors": room.Visitors,
		},
		"visitor": visitor,
	})
}

func (s *Server) handleLeaveRoom(c *gin.Context) {
	var req visitorRequest
	if !bindJSON(c, &req, visitorMessages, "") {
		return
	}
	room, err := s.rooms.LeaveRoom(c.Request.Context(), normalizeCode(c.Param("code")), req.VisitorID)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": newRoomResponse(room), "visitors": room.Visitors})
}

func (s *Server) handleStartGame(c *gin.Context) {
	var req hostRequest
	if !bindJSON(c, &req, hostMessages, "") {
		return
	}
	game, err := s.rooms.StartGame(c.Request.Context(), normalizeCode(c.Param("code")), req.HostID)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": gin.H{
		"id":           game.ID,
		"drawnNumbers": game.DrawnNumbers,
		"cards":        game.Cards,
		"rules":        game.Rules,
		"isFinished":   game.IsFinished,
		"startedAt":    game.StartedAt,
	}})
}

func (s *Server) handleDrawNumber(c *gin.Context) {
	var req hostRequest
	if !bindJSON(c, &req, hostMessages, "") {
		return
	}
	result, err := s.rooms.DrawNumber(c.Request.Context(), normalizeCode(c.Param("code")), req.HostID)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	game := result.Game
	c.JSON(http.StatusOK, gin.H{
		"number":       result.Number,
		"drawnNumbers": game.DrawnNumbers,
		"isFinished":   game.IsFinished,
		"winner":       game.Winner,
	})
}

func (s *Server) handleValidateBingo(c *gin.Context) {
	var req validateBingoRequest
	if !bindJSON(c, &req, validateBingoMessages, "") {
		return
	}
	valid, err := s.rooms.ValidateBingo(c.Request.Context(), normalizeCode(c.Param("code")), req.CardID, req.VisitorID)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isValid": valid})
}

func (s *Server) handleEndGame(c *gin.Context) {
	var req hostRequest
	if !bindJSON(c, &req, hostMessages, "") {
		return
	}
	room, err := s.rooms.EndGame(c.Request.Context(), normalizeCode(c.Param("code")), req.HostID)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": newRoomResponse(room)})
}

func (s *Server) handleCloseRoom(c *gin.Context) {
	var req hostRequest
	if !bindJSON(c, &req, hostMessages, "") {
		return
	}
	room, err := s.rooms.CloseRoom(c.Request.Context(), normalizeCode(c.Param("code")), req.HostID)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": newRoomResponse(room)})
}

// handleDeleteRoom reads hostId from the query string.
func (s *Server) handleDeleteRoom(c *gin.Context) {
	var req hostRequest
	if !bindQuery(c, &req) {
		return
	}
	if err := s.rooms.DeleteRoom(c.Request.Context(), normalizeCode(c.Param("code")), req.HostID); err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type eventResponse struct {
	ID        uint            `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// handleRoomEvents replays the broadcast history of a room. Events sent to
// a single visitor are left out.
func (s *Server) handleRoomEvents(c *gin.Context) {
	if s.events == nil {
		writeError(c, http.StatusServiceUnavailable, "event history is not enabled")
		return
	}
	code := normalizeCode(c.Param("code"))
	records, err := s.events.Events(c.Request.Context(), code)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	out := make([]eventResponse, 0, len(records))
	for _, record := range records {
		if record.VisitorID != nil {
			continue
		}
		out = append(out, eventResponse{
			ID:        record.ID,
			Type:      record.Type,
			Payload:   json.RawMessage(record.Payload),
			CreatedAt: record.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"roomCode": code, "events": out})
}
