package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Slivix/Projet-AOS/internal/domain"
	"github.com/Slivix/Projet-AOS/internal/service/game"
)

// createLobbyRequest verifies the creator by default, like the web client.
type createLobbyRequest struct {
	game.CreateLobbyRequest
	VerifyUser *bool `json:"verify_user"`
}

type joinLobbyRequest struct {
	Code       string `json:"gameCode" binding:"required"`
	PlayerName string `json:"playerName" binding:"required"`
	VerifyUser bool   `json:"verify_user"`
}

// OnlineHandler serves the shared lobbies under /api/online.
type OnlineHandler struct {
	Lobbies *game.Lobbies
}

func NewOnlineHandler(lobbies *game.Lobbies) *OnlineHandler {
	return &OnlineHandler{Lobbies: lobbies}
}

func (h *OnlineHandler) Create(c *gin.Context) {
	var req createLobbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.CreateLobbyRequest.VerifyUser = req.VerifyUser == nil || *req.VerifyUser

	state, err := h.Lobbies.Create(c.Request.Context(), req.CreateLobbyRequest)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lobby created", "code": state.Code, "state": state})
}

func (h *OnlineHandler) Join(c *gin.Context) {
	var req joinLobbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "gameCode and playerName are required")
		return
	}

	state, err := h.Lobbies.Join(c.Request.Context(), req.Code, req.PlayerName, req.VerifyUser)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined", "state": state})
}

func (h *OnlineHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.Lobbies.Lobbies())
}

func (h *OnlineHandler) State(c *gin.Context) {
	state, err := h.Lobbies.State(c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *OnlineHandler) Move(c *gin.Context) {
	code := c.Param("code")
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "column and player_id are required")
		return
	}

	state, err := h.Lobbies.Move(c.Request.Context(), code, *req.Column, req.PlayerID)
	if err == domain.ErrGameOver {
		if current, serr := h.Lobbies.State(code); serr == nil {
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

func (h *OnlineHandler) Reset(c *gin.Context) {
	state, err := h.Lobbies.Reset(c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reset", "state": state})
}

func (h *OnlineHandler) Destroy(c *gin.Context) {
	if err := h.Lobbies.Destroy(c.Param("code")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Destroyed"})
}
