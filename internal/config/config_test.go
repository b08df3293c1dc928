package config

import (
	"context"
	"testing"
	"time"

	"github.com/Slivix/Projet-AOS/internal/domain"
	"github.com/Slivix/Projet-AOS/internal/service/game"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("GAME_IDLE_TTL_HOURS", "")

	cfg := LoadConfig()
	if cfg.Port != "8000" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.GameIdleTTL != 24*time.Hour || cfg.CleanupInterval != 15*time.Minute {
		t.Fatalf("ttl defaults = %v, %v", cfg.GameIdleTTL, cfg.CleanupInterval)
	}
	if cfg.DefaultRows != 6 || cfg.DefaultCols != 7 || cfg.DefaultConnect != 4 {
		t.Fatalf("board defaults = %d %d %d", cfg.DefaultRows, cfg.DefaultCols, cfg.DefaultConnect)
	}
	if AppConfig != cfg {
		t.Fatalf("LoadConfig must set AppConfig")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FRONTEND_URL", "https://play.example")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "30")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := LoadConfig()
	if cfg.Port != "9000" || cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.DBMaxOpenConns != 25 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.DBMaxOpenConns)
	}
	want := []string{"https://play.example", "http://localhost:8080", "https://a.example", "https://b.example"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Fatalf("origins = %v, want %v", cfg.AllowedOrigins, want)
		}
	}
	if got := cfg.OAuthConfig.GoogleLoginConfig.RedirectURL; got != "https://play.example/api/auth/google/callback" {
		t.Fatalf("redirect url = %q", got)
	}
}

func TestGameDefaultsFromEnv(t *testing.T) {
	t.Setenv("DEFAULT_ROWS", "8")
	t.Setenv("DEFAULT_COLS", "9")
	t.Setenv("DEFAULT_CONNECT", "5")

	got := LoadConfig().GameDefaults()
	if got != (domain.GameConfig{Rows: 8, Cols: 9, Connect: 5}) {
		t.Fatalf("GameDefaults = %+v", got)
	}

	store := game.NewStore(nil)
	store.SetDefaults(got)
	players := []domain.Player{{ID: 1, Name: "alice"}, {ID: 2, Name: "bob"}}
	g, err := store.Create(context.Background(), game.CreateGameRequest{ID: 1, Players: players})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.Board.Rows() != 8 || g.Board.Cols() != 9 || g.Config.Connect != 5 {
		t.Fatalf("created game ignores the configured board: %+v", g.Config)
	}

	t.Setenv("DEFAULT_CONNECT", "2")
	if got := LoadConfig().GameDefaults(); got != (domain.GameConfig{}).WithDefaults() {
		t.Fatalf("invalid defaults should fall back to the standard board, got %+v", got)
	}
}
