package controllers

import (
	"fmt"
	"sort"
	"time"

	"github.com/amaumene/reeldle/internal/engine"
	"github.com/amaumene/reeldle/internal/models"
)

// Stats summarizes the daily games played so far
type Stats struct {
	Played        int     `json:"played"`
	Won           int     `json:"won"`
	Lost          int     `json:"lost"`
	WinPercent    float64 `json:"win_percent"`
	CurrentStreak int     `json:"current_streak"`
	MaxStreak     int     `json:"max_streak"`
}

type dayOutcome struct {
	dateKey string
	won     bool
}

// Stats aggregates archived daily sessions and today's finished one.
// Unfinished sessions that were archived at rollover still count as played.
func (c *GameController) Stats() (*Stats, error) {
	var archived []*models.ArchivedSession
	if c.archive != nil {
		var err error
		archived, err = c.archive.GetArchivedSessions()
		if err != nil {
			return nil, fmt.Errorf("failed to load archived sessions: %w", err)
		}
	}

	c.mu.Lock()
	today := c.todayLocked()
	var current *models.Session
	if c.daily != nil && c.daily.IsTerminal() {
		current = c.daily.Clone()
	}
	c.mu.Unlock()

	byDate := make(map[string]dayOutcome)
	for _, a := range archived {
		byDate[a.DateKey] = dayOutcome{dateKey: a.DateKey, won: a.Won}
	}
	if current != nil {
		byDate[current.DateKey] = dayOutcome{dateKey: current.DateKey, won: current.Won}
	}

	days := make([]dayOutcome, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].dateKey < days[j].dateKey })

	return computeStats(days, today), nil
}

func computeStats(days []dayOutcome, today string) *Stats {
	stats := &Stats{Played: len(days)}

	var run int
	var prev time.Time
	for _, d := range days {
		day, err := time.Parse(engine.DateKeyLayout, d.dateKey)
		if err != nil {
			continue
		}

		if !d.won {
			stats.Lost++
			run = 0
			prev = day
			continue
		}

		stats.Won++
		if !prev.IsZero() && day.Sub(prev) == 24*time.Hour && run > 0 {
			run++
		} else {
			run = 1
		}
		if run > stats.MaxStreak {
			stats.MaxStreak = run
		}
		prev = day
	}

	if stats.Played > 0 {
		stats.WinPercent = float64(stats.Won) * 100 / float64(stats.Played)
	}

	// A streak is still current when its last win was today or yesterday
	if run > 0 {
		if last, err := time.Parse(engine.DateKeyLayout, today); err == nil {
			if gap := last.Sub(prev); gap <= 24*time.Hour {
				stats.CurrentStreak = run
			}
		}
	}
	return stats
}
