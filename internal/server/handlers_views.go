package server

import (
	"net/http"

	"bingo-rooms/internal/bingo"
	"bingo-rooms/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleHome(c *gin.Context) {
	templ.Handler(web.Home(s.roomSummaries(c.Request.Context()))).ServeHTTP(c.Writer, c.Request)
}

func (s *Server) handleBoardView(c *gin.Context) {
	code := normalizeCode(c.Param("code"))
	room, err := s.rooms.GetRoom(c.Request.Context(), code)
	if bingo.KindOf(err) == bingo.KindRoomNotFound {
		s.log.WithField("room_code", code).Debug("board view missing room")
		c.Redirect(http.StatusFound, "/")
		return
	}
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	templ.Handler(web.Board(boardData(room))).ServeHTTP(c.Writer, c.Request)
}
