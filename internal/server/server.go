package server

import (
	"context"
	"net/http"
	"time"

	"bingo-rooms/internal/db"
	"bingo-rooms/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EventSource exposes the recorded history of a room.
type EventSource interface {
	Events(ctx context.Context, roomCode string) ([]db.Event, error)
}

type Options struct {
	Log         logrus.FieldLogger
	FrontendURL string
	// Events is optional; without it the events endpoint answers 503.
	Events EventSource
}

type Server struct {
	rooms       *service.RoomService
	ws          *Hub
	homeWS      *homeHub
	log         logrus.FieldLogger
	events      EventSource
	frontendURL string
}

// New wires the HTTP surface. hub must be the broadcaster the service was
// built with so room events reach websocket clients.
func New(rooms *service.RoomService, hub *Hub, opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	if hub == nil {
		hub = NewHub(log)
	}
	registerValidators()
	s := &Server{
		rooms:       rooms,
		ws:          hub,
		homeWS:      newHomeHub(log),
		log:         log,
		events:      opts.Events,
		frontendURL: opts.FrontendURL,
	}
	hub.onEvent = func(string) {
		go s.broadcastHomeUpdate()
	}
	return s
}

func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	if s.frontendURL != "" {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     []string{s.frontendURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/", s.handleHome)
	router.GET("/rooms/:code", s.handleBoardView)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.GET("/rooms", s.handleListRooms)
	api.POST("/rooms", s.handleCreateRoom)
	api.POST("/rooms/join", s.handleJoinRoom)
	api.GET("/rooms/:code", s.handleGetRoom)
	api.DELETE("/rooms/:code", s.handleDeleteRoom)
	api.GET("/rooms/:code/events", s.handleRoomEvents)
	api.POST("/rooms/:code/join", s.handleJoinRoom)
	api.POST("/rooms/:code/leave", s.handleLeaveRoom)
	api.POST("/rooms/:code/start", s.handleStartGame)
	api.POST("/rooms/:code/end", s.handleEndGame)
	api.POST("/rooms/:code/close", s.handleCloseRoom)
	api.POST("/game/:code/draw", s.handleDrawNumber)
	api.POST("/game/:code/validate-bingo", s.handleValidateBingo)

	router.GET("/ws/rooms/:code", s.handleRoomWebsocket)
	router.GET("/ws/home", s.handleHomeWebsocket)
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := s.log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request")
	}
}
