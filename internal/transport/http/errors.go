package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Slivix/Projet-AOS/internal/domain"
	"github.com/Slivix/Projet-AOS/internal/service/user"
)

type apiError struct {
	status int
	detail string
}

var domainErrors = map[domain.Error]apiError{
	domain.ErrGameNotFound:       {http.StatusNotFound, "Game not found"},
	domain.ErrUserNotFound:       {http.StatusNotFound, "User not found"},
	domain.ErrGameOver:           {http.StatusConflict, "Game is over"},
	domain.ErrLobbyFull:          {http.StatusConflict, "Game already full"},
	domain.ErrWaitingForOpponent: {http.StatusConflict, "Waiting for opponent"},
	domain.ErrNotYourTurn:        {http.StatusForbidden, "Not this player's turn"},
	domain.ErrColumnOutOfRange:   {http.StatusBadRequest, "Column out of range"},
	domain.ErrColumnFull:         {http.StatusBadRequest, "Column is full"},
	domain.ErrInvalidMove:        {http.StatusBadRequest, "Invalid move"},
	domain.ErrInvalidConfig:      {http.StatusBadRequest, "Board must be at least 4x4 with connect 3 or more"},
	domain.ErrInvalidPlayers:     {http.StatusBadRequest, "A game needs two players with distinct ids"},
	domain.ErrGameExists:         {http.StatusBadRequest, "Game code already exists"},
	domain.ErrNameTaken:          {http.StatusBadRequest, "Name already used in this game"},
	domain.ErrUserExists:         {http.StatusBadRequest, "Email or name already registered"},
	domain.ErrInvalidCredentials: {http.StatusBadRequest, "Invalid username or password"},
}

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// writeError answers err with the {"detail"} shape every client reads.
func writeError(c *gin.Context, err error) {
	var derr domain.Error
	if errors.As(err, &derr) {
		if e, ok := domainErrors[derr]; ok {
			abortWithDetail(c, e.status, e.detail)
			return
		}
	}

	var verr *user.ValidationError
	if errors.As(err, &verr) {
		abortWithDetail(c, http.StatusBadRequest, verr.Error())
		return
	}

	log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	abortWithDetail(c, http.StatusInternalServerError, "Internal server error")
}

// gameOver reports the terminal status the same way for both game kinds.
func gameOver(c *gin.Context, state *domain.GameState) {
	abortWithDetail(c, http.StatusConflict, "Game is "+string(state.Status))
}
