package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Slivix/Projet-AOS/internal/domain"
	"github.com/Slivix/Projet-AOS/internal/service/user"
	"github.com/Slivix/Projet-AOS/internal/transport/http/middleware"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type historyRequest struct {
	Name string `json:"name" binding:"required"`
	domain.HistoryEntry
}

// UserHandler serves accounts, scores and match history under /api/users.
type UserHandler struct {
	Users *user.Service
}

func NewUserHandler(users *user.Service) *UserHandler {
	return &UserHandler{Users: users}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Users.Users(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "name, email and password are required")
		return
	}

	u, err := h.Users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Delete removes the caller's own account.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if c.GetInt64(middleware.UserIDKey) != id {
		abortWithDetail(c, http.StatusForbidden, "You can only delete your own account")
		return
	}

	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Score(c *gin.Context) {
	score, err := h.Users.Score(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

func (h *UserHandler) Scores(c *gin.Context) {
	scores, err := h.Users.Scores(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, scores)
}

func (h *UserHandler) Leaderboard(c *gin.Context) {
	board, err := h.Users.Leaderboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// AddHistory appends to the caller's own history.
func (h *UserHandler) AddHistory(c *gin.Context) {
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "Invalid history entry")
		return
	}
	if c.GetString(middleware.UsernameKey) != req.Name {
		abortWithDetail(c, http.StatusForbidden, "You can only add to your own history")
		return
	}

	if err := h.Users.AddHistory(c.Request.Context(), req.Name, req.HistoryEntry); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "History added"})
}

func (h *UserHandler) History(c *gin.Context) {
	entries, err := h.Users.History(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *UserHandler) Stats(c *gin.Context) {
	summary, err := h.Users.Stats(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
