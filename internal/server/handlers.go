package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/models"
	"github.com/julianstephens/focuslit/internal/service"
)

func (s *Server) createUser(c *gin.Context) {
	var in service.NewUser
	if !bindJSON(c, &in) {
		return
	}
	u, err := s.svc.CreateUser(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	u, err := s.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var patch models.UserPatch
	if !bindJSON(c, &patch) {
		return
	}
	u, err := s.svc.UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) listTasks(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	tasks, err := s.svc.ListTasks(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c *gin.Context) {
	var in service.NewTask
	if !bindJSON(c, &in) {
		return
	}
	t, err := s.svc.CreateTask(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) updateTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var patch models.TaskPatch
	if !bindJSON(c, &patch) {
		return
	}
	t, err := s.svc.UpdateTask(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	deleted, err := s.svc.DeleteTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		respondError(c, errors.NotFound("task", id))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listSessions(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	sessions, err := s.svc.ListSessions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (s *Server) createSession(c *gin.Context) {
	var in service.NewSession
	if !bindJSON(c, &in) {
		return
	}
	sess, err := s.svc.CreateSession(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (s *Server) updateSession(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var patch models.SessionPatch
	if !bindJSON(c, &patch) {
		return
	}
	sess, err := s.svc.UpdateSession(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) getProgress(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	day, err := service.ParseDate(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	rec, err := s.svc.GetProgress(c.Request.Context(), id, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) weeklyProgress(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	records, err := s.svc.WeeklyProgress(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []models.ProgressRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) upsertProgress(c *gin.Context) {
	var in service.ProgressInput
	if !bindJSON(c, &in) {
		return
	}
	rec, err := s.svc.UpsertProgress(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) dashboard(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	d, err := s.svc.Dashboard(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
