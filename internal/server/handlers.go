package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo/internal/export"
	"todo/internal/task"
)

// maxImportBody caps POST /api/import bodies.
const maxImportBody = 10 << 20

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) listTodos(c *gin.Context) {
	c.JSON(http.StatusOK, nonNil(s.tasks.Tasks()))
}

func (s *Server) countTodos(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"open": s.tasks.OpenCount(), "total": s.tasks.Len()})
}

func (s *Server) addTodo(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	t, err := s.tasks.Add(c.Request.Context(), req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) updateTodo(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	t, err := s.tasks.Update(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) toggleTodo(c *gin.Context) {
	t, err := s.tasks.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) deleteTodo(c *gin.Context) {
	if err := s.tasks.Remove(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) clearCompleted(c *gin.Context) {
	n, err := s.tasks.ClearCompleted(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

func (s *Server) exportTodos(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", "json"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", `attachment; filename="`+format.FileName()+`"`)
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, s.tasks, format, time.Now()); err != nil {
		s.log.Error("export failed", "format", format, "error", err)
	}
}

func (s *Server) importTodos(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	n, err := s.tasks.ImportJSON(c.Request.Context(), body)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": n})
}

// fail maps a manager error to a status code.
func (s *Server) fail(c *gin.Context, err error) {
	var parseErr *task.ParseError
	switch {
	case errors.As(err, &parseErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
	case errors.Is(err, task.ErrEmptyText):
		c.JSON(http.StatusBadRequest, gin.H{"error": "text required"})
	case errors.Is(err, task.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	default:
		s.log.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
