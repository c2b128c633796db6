package server

import (
	"errors"
	"net/http"

	"bingo-rooms/internal/bingo"
	"bingo-rooms/internal/storage"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	switch bingo.KindOf(err) {
	case bingo.KindRoomNotFound, bingo.KindGameNotFound, bingo.KindCardNotFound:
		return http.StatusNotFound
	case bingo.KindNotHost, bingo.KindCardNotOwned, bingo.KindHostCannotLeave:
		return http.StatusForbidden
	case bingo.KindInvalidArgument, bingo.KindNoVisitors, bingo.KindNoDrawsYet:
		return http.StatusBadRequest
	case bingo.KindRoomFull,
		bingo.KindRoomInactive,
		bingo.KindVisitorAlreadyPresent,
		bingo.KindGameAlreadyInProgress,
		bingo.KindNoGameInProgress,
		bingo.KindGameAlreadyFinished,
		bingo.KindNoNumbersRemaining,
		bingo.KindGameAlreadyOver:
		return http.StatusConflict
	}
	if errors.Is(err, storage.ErrConflict) || errors.Is(err, storage.ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// writeServiceError answers with the mapped status. Domain errors carry a
// code clients can switch on; anything else is logged and hidden.
func (s *Server) writeServiceError(c *gin.Context, err error) {
	status := statusFor(err)
	if kind := bingo.KindOf(err); kind != "" {
		c.JSON(status, gin.H{"error": err.Error(), "code": kind})
		return
	}
	if status == http.StatusConflict {
		c.JSON(status, gin.H{"error": "room changed, try again", "code": "CONFLICT"})
		return
	}
	s.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	writeError(c, status, "internal error")
}
