package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Slivix/Projet-AOS/internal/config"
	"github.com/Slivix/Projet-AOS/internal/service/game"
	"github.com/Slivix/Projet-AOS/internal/service/user"
	"github.com/Slivix/Projet-AOS/internal/transport/http/middleware"
	"github.com/Slivix/Projet-AOS/internal/transport/websocket"
)

// Dependencies are the services the router exposes.
type Dependencies struct {
	Games          *game.Store
	Lobbies        *game.Lobbies
	Users          *user.Service
	Hub            *websocket.Hub
	OAuth          *config.OAuthConfig
	AllowedOrigins []string
	FrontendURL    string
}

func NewRouter(deps Dependencies) *gin.Engine {
	gameHandler := NewGameHandler(deps.Games)
	onlineHandler := NewOnlineHandler(deps.Lobbies)
	userHandler := NewUserHandler(deps.Users)
	authHandler := NewAuthHandler(deps.Users)
	oauthHandler := NewOAuthHandler(deps.Users, deps.OAuth, deps.FrontendURL)
	wsHandler := websocket.NewHandler(deps.Hub, deps.Lobbies, deps.AllowedOrigins)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	authMW := middleware.AuthMiddleware(deps.Users)
	optionalAuthMW := middleware.OptionalAuthMiddleware(deps.Users)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	games := router.Group("/api/games")
	{
		games.GET("/", gameHandler.List)
		games.POST("/", optionalAuthMW, gameHandler.Create)
		games.GET("/:id", gameHandler.Get)
		games.PUT("/:id/move", gameHandler.Move)
		games.DELETE("/:id", gameHandler.Delete)
	}

	online := router.Group("/api/online")
	{
		online.POST("/", onlineHandler.Create)
		online.POST("/join", onlineHandler.Join)
		online.GET("/lobbies", onlineHandler.List)
		online.GET("/:code", onlineHandler.State)
		online.PUT("/:code/move", onlineHandler.Move)
		online.POST("/:code/reset", onlineHandler.Reset)
		online.DELETE("/:code", onlineHandler.Destroy)
		online.GET("/:code/ws", wsHandler.Watch)
	}

	users := router.Group("/api/users")
	{
		users.GET("/", userHandler.List)
		users.POST("/", userHandler.Register)
		users.DELETE("/:id", authMW, userHandler.Delete)
		users.GET("/score/:name", userHandler.Score)
		users.GET("/scores", userHandler.Scores)
		users.GET("/leaderboard", userHandler.Leaderboard)
		users.POST("/history", authMW, userHandler.AddHistory)
		users.GET("/history/:name", userHandler.History)
		users.GET("/history/:name/stats", userHandler.Stats)
	}

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/", authHandler.Login)
		authGroup.POST("/logout", authMW, authHandler.Logout)
		authGroup.GET("/me", authMW, authHandler.Me)
		authGroup.GET("/google/login", oauthHandler.GoogleLogin)
		authGroup.GET("/google/callback", oauthHandler.GoogleCallback)
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithDetail(c, http.StatusNotFound, "Not Found")
	})

	return router
}
