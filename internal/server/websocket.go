package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"bingo-rooms/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait   = 5 * time.Second
	listTimeout = 5 * time.Second
	// sendBuffer is how many frames a client may fall behind before it is
	// disconnected.
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsMessage is the frame shape for both directions.
type wsMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// wsClient owns one connection. Frames go through send and are written by
// writePump, so callers never wait on the network.
type wsClient struct {
	conn      *websocket.Conn
	visitorID string
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newWSClient(conn *websocket.Conn, visitorID string) *wsClient {
	return &wsClient{
		conn:      conn,
		visitorID: visitorID,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
	}
}

// enqueue reports false when the client is closed or too far behind.
func (c *wsClient) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *wsClient) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *wsClient) writePump(log logrus.FieldLogger) {
	defer c.close()
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.WithError(err).Debug("ws write failed")
				return
			}
		}
	}
}

// Hub fans room events out to websocket clients grouped by room code.
type Hub struct {
	mu     sync.Mutex
	groups map[string]map[*wsClient]struct{}
	log    logrus.FieldLogger
	// onEvent runs after every room broadcast.
	onEvent func(roomCode string)
}

func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		groups: make(map[string]map[*wsClient]struct{}),
		log:    log,
	}
}

func (h *Hub) add(roomCode string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[roomCode]
	if group == nil {
		group = make(map[*wsClient]struct{})
		h.groups[roomCode] = group
	}
	group[client] = struct{}{}
}

func (h *Hub) remove(roomCode string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[roomCode]
	if group == nil {
		return
	}
	delete(group, client)
	if len(group) == 0 {
		delete(h.groups, roomCode)
	}
}

func (h *Hub) clients(roomCode string, visitorID string) []*wsClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[roomCode]
	out := make([]*wsClient, 0, len(group))
	for client := range group {
		if visitorID == "" || client.visitorID == visitorID {
			out = append(out, client)
		}
	}
	return out
}

// Connections reports how many clients are subscribed to a room.
func (h *Hub) Connections(roomCode string) int {
	return len(h.clients(roomCode, ""))
}

func (h *Hub) Broadcast(roomCode, event string, payload any) {
	h.deliver(roomCode, "", event, payload)
	if h.onEvent != nil {
		h.onEvent(roomCode)
	}
}

func (h *Hub) SendToVisitor(roomCode, visitorID, event string, payload any) {
	if visitorID == "" {
		return
	}
	h.deliver(roomCode, visitorID, event, payload)
}

func (h *Hub) deliver(roomCode, visitorID, event string, payload any) {
	targets := h.clients(roomCode, visitorID)
	if len(targets) == 0 {
		return
	}
	data, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		h.log.WithError(err).WithField("event", event).Warn("ws encode failed")
		return
	}
	for _, client := range targets {
		if !client.enqueue(data) {
			h.log.WithFields(logrus.Fields{
				"room_code":  roomCode,
				"visitor_id": client.visitorID,
				"event":      event,
			}).Warn("ws client too slow, disconnecting")
			h.remove(roomCode, client)
			client.close()
		}
	}
}

func (h *Hub) send(client *wsClient, event string, payload any) {
	data, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		return
	}
	if !client.enqueue(data) {
		client.close()
	}
}

type homeHub struct {
	mu    sync.Mutex
	conns map[*wsClient]struct{}
	log   logrus.FieldLogger
}

func newHomeHub(log logrus.FieldLogger) *homeHub {
	return &homeHub{
		conns: make(map[*wsClient]struct{}),
		log:   log,
	}
}

func (h *homeHub) add(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[client] = struct{}{}
}

func (h *homeHub) remove(client *wsClient) {
	h.mu.Lock()
	delete(h.conns, client)
	h.mu.Unlock()
	client.close()
}

func (h *homeHub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *homeHub) broadcast(payload any) {
	h.mu.Lock()
	conns := make([]*wsClient, 0, len(h.conns))
	for client := range h.conns {
		conns = append(conns, client)
	}
	h.mu.Unlock()
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, client := range conns {
		if !client.enqueue(data) {
			h.log.Debug("home ws client too slow, disconnecting")
			h.remove(client)
		}
	}
}

type roomSocketQuery struct {
	VisitorID string `form:"visitorId" binding:"omitempty,max=64"`
}

func (s *Server) handleRoomWebsocket(c *gin.Context) {
	code := normalizeCode(c.Param("code"))
	var query roomSocketQuery
	if !bindQuery(c, &query) {
		return
	}
	room, err := s.rooms.GetRoom(c.Request.Context(), code)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := newWSClient(conn, query.VisitorID)
	log := s.log.WithFields(logrus.Fields{
		"room_code":  room.Code,
		"visitor_id": query.VisitorID,
		"remote":     c.Request.RemoteAddr,
	})
	log.Info("ws connected")
	s.ws.add(room.Code, client)
	go client.writePump(log)
	go s.readRoomWS(room.Code, client, log)
}

// readRoomWS keeps the subscription alive. Clients may send join-room to
// resubscribe and leave-room to stop receiving events for the room.
func (s *Server) readRoomWS(roomCode string, client *wsClient, log logrus.FieldLogger) {
	defer func() {
		s.ws.remove(roomCode, client)
		client.close()
	}()
	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			log.WithError(err).Debug("ws disconnected")
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.Event {
		case "join-room":
			s.ws.add(roomCode, client)
			s.ws.send(client, "joined-room", gin.H{"roomCode": roomCode})
		case "leave-room":
			s.ws.remove(roomCode, client)
			s.ws.send(client, "left-room", gin.H{"roomCode": roomCode})
		}
	}
}

func (s *Server) handleHomeWebsocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := newWSClient(conn, "")
	log := s.log.WithField("remote", c.Request.RemoteAddr)
	log.Debug("home ws connected")
	s.homeWS.add(client)
	go client.writePump(log)
	go s.readHomeWS(client)
}

func (s *Server) readHomeWS(client *wsClient) {
	defer s.homeWS.remove(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// broadcastHomeUpdate pushes the rendered room list to landing page clients.
func (s *Server) broadcastHomeUpdate() {
	if s.homeWS.size() == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
	defer cancel()
	s.homeWS.broadcast(gin.H{"html": s.renderRoomListHTML(ctx)})
}

func (s *Server) roomSummaries(ctx context.Context) []web.RoomSummary {
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		s.log.WithError(err).Warn("list rooms failed")
		return []web.RoomSummary{}
	}
	return summarizeRooms(rooms)
}
