package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/focuslit/internal/focus"
)

type timerAction func(ctx context.Context, userID int64) (focus.Status, error)

// withTimer resolves the user before touching their timer so unknown ids
// never allocate one.
func (s *Server) withTimer(c *gin.Context, action func(*focus.Manager) timerAction) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := s.svc.GetUser(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	st, err := action(s.timers)(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) timerStatus(c *gin.Context) {
	s.withTimer(c, func(m *focus.Manager) timerAction { return m.Status })
}

func (s *Server) timerStart(c *gin.Context) {
	s.withTimer(c, func(m *focus.Manager) timerAction { return m.Start })
}

func (s *Server) timerPause(c *gin.Context) {
	s.withTimer(c, func(m *focus.Manager) timerAction { return m.Pause })
}

func (s *Server) timerReset(c *gin.Context) {
	s.withTimer(c, func(m *focus.Manager) timerAction { return m.Reset })
}
