package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Slivix/Projet-AOS/internal/client"
	"github.com/Slivix/Projet-AOS/internal/domain"
)

var (
	clrBorder = lipgloss.Color("#30363d")
	clrSubtle = lipgloss.Color("#8b949e")
	clrRed    = lipgloss.Color("#f85149")
	clrYellow = lipgloss.Color("#f0c862")
	clrGreen  = lipgloss.Color("#3fb950")
	clrTitle  = lipgloss.Color("#58a6ff")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bold(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

func cell(p domain.PlayerID) string {
	switch p {
	case domain.Player1:
		return fg(clrRed).Render("●")
	case domain.Player2:
		return fg(clrYellow).Render("●")
	default:
		return fg(clrSubtle).Render("·")
	}
}

func renderBoard(b domain.Board) string {
	var sb strings.Builder
	for _, row := range b {
		cells := make([]string, len(row))
		for c, p := range row {
			cells[c] = cell(p)
		}
		sb.WriteString(strings.Join(cells, " "))
		sb.WriteByte('\n')
	}

	idx := make([]string, b.Cols())
	for c := range idx {
		idx[c] = fmt.Sprint(c % 10)
	}
	sb.WriteString(fg(clrSubtle).Render(strings.Join(idx, " ")))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(clrBorder).
		Padding(0, 1).
		Render(sb.String())
}

// statusLine mirrors the status messages of the web client.
func statusLine(v client.View) string {
	g := v.State
	switch {
	case g == nil:
		return ""
	case v.Mode == domain.ModeOnline && len(g.Players) < 2:
		return fg(clrSubtle).Render("Waiting for an opponent...")
	case g.Status == domain.StatusWon:
		w, _ := g.Winner()
		return bold(clrGreen).Render("Finished: " + w.Name + " wins")
	case g.Status == domain.StatusDraw:
		return bold(clrGreen).Render("Finished: draw")
	}

	cur, _ := g.CurrentPlayer()
	switch v.Mode {
	case domain.ModeOnline:
		if cur.ID == v.Self {
			return bold(clrTitle).Render("Your turn.")
		}
		return "Turn of " + cur.Name + "."
	case domain.ModeAI:
		if cur.ID == client.BotPlayer {
			return "The bot is thinking..."
		}
		return bold(clrTitle).Render("Your turn.")
	default:
		return cur.Name + " to play " + cell(cur.ID)
	}
}

func render(v client.View) string {
	if v.State == nil {
		return fg(clrSubtle).Render("No game. Type 'new', 'ai', 'create' or 'join CODE'.")
	}
	g := v.State

	header := fmt.Sprintf("%s game #%d  %dx%d connect %d", v.Mode, g.ID, g.Config.Rows, g.Config.Cols, g.Config.Connect)
	if v.Code != "" {
		header += "  room " + v.Code
	}
	lines := []string{bold(clrTitle).Render(header)}

	names := make([]string, len(g.Players))
	for i, p := range g.Players {
		names[i] = cell(p.ID) + " " + p.Name
	}
	lines = append(lines, strings.Join(names, "   "))
	lines = append(lines, renderBoard(g.Board), statusLine(v))

	if v.Simulated {
		lines = append(lines, fg(clrRed).Render("offline: showing a simulated move"))
	} else if v.Offline {
		lines = append(lines, fg(clrRed).Render("offline: showing the last known state"))
	}
	return strings.Join(lines, "\n")
}

func renderHistory(entries []domain.HistoryEntry, summary domain.HistorySummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d games  %d W / %d L / %d D  win rate %d%%\n",
		summary.Total, summary.Wins, summary.Losses, summary.Draws, summary.WinRate)

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		duration := "-"
		if e.DurationS != nil {
			duration = domain.FormatDuration(*e.DurationS)
		}
		moves := "-"
		if e.MoveCount != nil {
			moves = fmt.Sprint(*e.MoveCount)
		}
		fmt.Fprintf(&sb, "%s  %-5s vs %-12s %-7s moves %-3s %s\n",
			e.EndedAt.Format("2006-01-02 15:04"), e.Result, e.Opponent, e.Mode, moves, duration)
	}
	return strings.TrimRight(sb.String(), "\n")
}
