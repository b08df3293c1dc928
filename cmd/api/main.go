package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Slivix/Projet-AOS/internal/config"
	"github.com/Slivix/Projet-AOS/internal/repository/memory"
	"github.com/Slivix/Projet-AOS/internal/repository/postgres"
	"github.com/Slivix/Projet-AOS/internal/repository/redis"
	"github.com/Slivix/Projet-AOS/internal/service/cleanup"
	"github.com/Slivix/Projet-AOS/internal/service/game"
	"github.com/Slivix/Projet-AOS/internal/service/user"
	transportHttp "github.com/Slivix/Projet-AOS/internal/transport/http"
	"github.com/Slivix/Projet-AOS/internal/transport/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Repositories: PostgreSQL when configured, memory otherwise
	var (
		users   user.UserRepository
		history user.HistoryRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, cfg)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		log.Println("Running database migrations...")
		if err := postgres.RunMigrations(ctx, db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Database migration completed successfully")

		users = postgres.NewUserRepo(db)
		history = postgres.NewHistoryRepo(db)
	} else {
		log.Println("DATABASE_URL not set, accounts are kept in memory")
		users = memory.NewUserRepo()
		history = memory.NewHistoryRepo()
	}

	// 2. Cache: Redis when reachable, memory otherwise
	var cache user.CacheRepository = memory.NewCache()
	if client := redis.InitRedis(ctx, cfg); client != nil {
		redisCache := redis.NewRedisCache(client)
		defer redisCache.Close()
		cache = redisCache
	}

	// 3. Services
	userService := user.NewService(users, history, cache)
	games := game.NewStore(userService)
	games.SetDefaults(cfg.GameDefaults())
	lobbies := game.NewLobbies(userService, userService)
	lobbies.SetDefaults(cfg.GameDefaults())
	hub := websocket.NewHub()
	lobbies.SetNotifier(hub)

	// 4. Background workers
	cleanupWorker := cleanup.NewWorker(cfg.CleanupInterval, cfg.GameFinishedTTL, cfg.GameIdleTTL, games, lobbies)
	cleanupWorker.Start(ctx)

	// 5. HTTP
	router := transportHttp.NewRouter(transportHttp.Dependencies{
		Games:          games,
		Lobbies:        lobbies,
		Users:          userService,
		Hub:            hub,
		OAuth:          &cfg.OAuthConfig,
		AllowedOrigins: cfg.AllowedOrigins,
		FrontendURL:    cfg.FrontendURL,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
