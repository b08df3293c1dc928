// Command connect4 is a terminal client for the Connect-4 API.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"

	"github.com/Slivix/Projet-AOS/internal/client"
	"github.com/Slivix/Projet-AOS/internal/domain"
	"github.com/Slivix/Projet-AOS/internal/service/bot"
)

const helpText = `commands:
  login NAME PASSWORD          sign in (history and verified lobbies)
  register NAME EMAIL PASSWORD create an account
  new [OPPONENT]               hot-seat game on this terminal
  ai                           game against the bot
  play COLUMN                  drop a piece
  create [CODE]                open an online lobby
  join CODE                    join an online lobby
  lobbies                      list online lobbies
  refresh                      reload the current game
  leave                        detach from the online game
  history [NAME]               match history and stats
  leaderboard                  top players
  quit`

type app struct {
	api      *client.API
	session  *client.Session
	cfg      domain.GameConfig
	useWatch bool

	outMu  sync.Mutex
	out    io.Writer
	follow context.CancelFunc
}

func main() {
	server := flag.String("server", "http://localhost:8000", "API base URL")
	name := flag.String("name", "Player1", "player name")
	rows := flag.Int("rows", domain.DefaultRows, "board rows")
	cols := flag.Int("cols", domain.DefaultColumns, "board columns")
	connect := flag.Int("connect", domain.DefaultConnect, "pieces in a row to win")
	difficulty := flag.String("difficulty", "easy", "bot difficulty: easy or hard")
	watch := flag.Bool("watch", true, "follow online games over websocket instead of polling")
	flag.Parse()

	// the library logs would interleave with the board
	log.SetOutput(io.Discard)

	api := client.NewAPI(*server, nil)
	a := &app{
		api:      api,
		session:  client.NewSession(api, *name, bot.NewEngine(bot.ParseDifficulty(*difficulty), nil)),
		cfg:      domain.GameConfig{Rows: *rows, Cols: *cols, Connect: *connect},
		useWatch: *watch,
		out:      os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a.println(helpText)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		a.print("> ")
		if !scanner.Scan() {
			break
		}
		quit, err := a.exec(ctx, scanner.Text())
		if err != nil {
			a.println(fg(clrRed).Render(describe(err)))
		}
		if quit || ctx.Err() != nil {
			break
		}
	}
	a.stopFollowing()
}

func describe(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	if client.IsUnreachable(err) {
		return "server unreachable: " + err.Error()
	}
	return err.Error()
}

func (a *app) print(s string) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprint(a.out, s)
}

func (a *app) println(s string) {
	a.print(s + "\n")
}

func (a *app) show() {
	a.println(render(a.session.View()))
}

func (a *app) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return true, nil

	case "help":
		a.println(helpText)

	case "login":
		if len(args) != 2 {
			return false, errors.New("usage: login NAME PASSWORD")
		}
		u, err := a.api.Login(ctx, args[0], args[1])
		if err != nil {
			return false, err
		}
		a.session.SetUserName(u.Username)
		a.println(fmt.Sprintf("signed in as %s (score %d)", u.Username, u.Score))

	case "register":
		if len(args) != 3 {
			return false, errors.New("usage: register NAME EMAIL PASSWORD")
		}
		if _, err := a.api.Register(ctx, args[0], args[1], args[2]); err != nil {
			return false, err
		}
		a.println("account created, now 'login " + args[0] + " PASSWORD'")

	case "new", "ai":
		a.stopFollowing()
		opponent := ""
		if len(args) > 0 {
			opponent = args[0]
		}
		if _, err := a.session.NewLocalGame(ctx, opponent, cmd == "ai", a.cfg); err != nil {
			return false, err
		}
		a.show()

	case "play":
		if len(args) != 1 {
			return false, errors.New("usage: play COLUMN")
		}
		column, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid column %q", args[0])
		}
		if _, err := a.session.Play(ctx, column); err != nil {
			return false, err
		}
		a.show()
		if _, played, err := a.session.BotTurn(ctx); err != nil {
			return false, err
		} else if played {
			a.show()
		}

	case "create":
		code := ""
		if len(args) > 0 {
			code = args[0]
		}
		verify := a.api.LoggedIn()
		if _, err := a.session.CreateLobby(ctx, code, a.cfg, verify); err != nil {
			return false, err
		}
		a.show()
		a.startFollowing(ctx)

	case "join":
		if len(args) != 1 {
			return false, errors.New("usage: join CODE")
		}
		if _, err := a.session.JoinLobby(ctx, args[0], a.api.LoggedIn()); err != nil {
			return false, err
		}
		a.show()
		a.startFollowing(ctx)

	case "lobbies":
		lobbies, err := a.session.ListLobbies(ctx)
		if err != nil {
			return false, err
		}
		if len(lobbies) == 0 {
			a.println("no lobby available")
		}
		for _, l := range lobbies {
			players := strings.Join(l.Players, ", ")
			if players == "" {
				players = "empty"
			}
			a.println(fmt.Sprintf("- %s (%s) %s", l.RoomID, players, l.Status))
		}

	case "refresh":
		if _, err := a.session.Refresh(ctx); err != nil {
			return false, err
		}
		a.show()

	case "leave":
		a.stopFollowing()
		a.session.Leave()
		a.println("left the online game")

	case "history":
		name := a.session.View().UserName
		if len(args) > 0 {
			name = args[0]
		}
		entries, err := a.api.History(ctx, name)
		if err != nil {
			return false, err
		}
		a.println(renderHistory(entries, domain.Summarize(entries)))

	case "leaderboard":
		scores, err := a.api.Leaderboard(ctx)
		if err != nil {
			return false, err
		}
		for _, s := range scores {
			a.println(fmt.Sprintf("%2d. %-20s %5d  %dW %dL %dD", s.Rank, s.Name, s.Score, s.Wins, s.Losses, s.Draws))
		}

	default:
		return false, fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
	return false, nil
}

// startFollowing keeps the online game up to date in the background, over
// the websocket when possible and by polling otherwise.
func (a *app) startFollowing(parent context.Context) {
	a.stopFollowing()
	ctx, cancel := context.WithCancel(parent)
	a.follow = cancel

	onUpdate := func(state *domain.GameState) {
		if state == nil {
			a.println("\nthe lobby was closed")
			return
		}
		a.println("")
		a.show()
	}

	go func() {
		if a.useWatch {
			err := a.session.Watch(ctx, onUpdate)
			if ctx.Err() != nil || err == nil {
				return
			}
		}

		last := version(a.session.View().State)
		a.session.Poll(ctx, client.PollInterval, func(state *domain.GameState) {
			if v := version(state); v != last {
				last = v
				onUpdate(state)
			}
		})
	}()
}

func (a *app) stopFollowing() {
	if a.follow != nil {
		a.follow()
		a.follow = nil
	}
}

// version changes whenever a poll brings something worth redrawing.
func version(g *domain.GameState) string {
	if g == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", g.ID, g.Version)
}
