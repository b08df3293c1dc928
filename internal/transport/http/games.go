package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Slivix/Projet-AOS/internal/domain"
	"github.com/Slivix/Projet-AOS/internal/service/game"
	"github.com/Slivix/Projet-AOS/internal/transport/http/middleware"
)

type moveRequest struct {
	Column   *int            `json:"column" binding:"required"`
	PlayerID domain.PlayerID `json:"player_id" binding:"required"`
}

// GameHandler serves the local games under /api/games.
type GameHandler struct {
	Games *game.Store
}

func NewGameHandler(games *game.Store) *GameHandler {
	return &GameHandler{Games: games}
}

func (h *GameHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.Games.List())
}

func (h *GameHandler) Create(c *gin.Context) {
	var req game.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	// only a signed-in creator gets the result in their history
	req.Owner = ""
	if claims, ok := middleware.GetClaims(c); ok {
		req.Owner = claims.Username
	}

	state, err := h.Games.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) Get(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	state, err := h.Games.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) Move(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "column and player_id are required")
		return
	}

	state, err := h.Games.Move(c.Request.Context(), id, *req.Column, req.PlayerID)
	if err == domain.ErrGameOver {
		if current, gerr := h.Games.Get(id); gerr == nil {
			gameOver(c, current)
			return
		}
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) Delete(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	if err := h.Games.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game deleted successfully"})
}

func gameID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, "Invalid game ID")
		return 0, false
	}
	return id, true
}
