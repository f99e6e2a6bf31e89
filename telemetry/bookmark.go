package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkParticlePeak BookmarkType = "particle_peak"
	BookmarkBurstStorm   BookmarkType = "burst_storm"
	BookmarkWordReveal   BookmarkType = "word_reveal"
	BookmarkSkyCleared   BookmarkType = "sky_cleared"
)

// Bookmark marks a notable moment of the show.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Frame       int32        `csv:"frame"`
	SimTimeSec  float64      `csv:"sim_time"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"sim_time", b.SimTimeSec,
		"description", b.Description,
	)
}

// BookmarkDetector flags windows that stand out from recent history.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPeak int // highest live particle count since the sky was last dark
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkParticlePeak(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkBurstStorm(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if stats.WordBursts > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkWordReveal,
			Frame:       stats.WindowEndFrame,
			SimTimeSec:  stats.SimTimeSec,
			Description: fmt.Sprintf("%d word bursts with %d sparks", stats.WordBursts, stats.WordSparks),
		})
	}
	if b := bd.checkSkyCleared(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if stats.Active() > bd.recentPeak {
		bd.recentPeak = stats.Active()
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkParticlePeak fires when live particles exceed twice the rolling average.
func (bd *BookmarkDetector) checkParticlePeak(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Active()
	}
	avg := float64(total) / float64(len(history))

	active := float64(stats.Active())
	if active > avg*2.0 && stats.Active() >= 500 {
		ratio := 0.0
		if avg > 0 {
			ratio = active / avg
		}
		return &Bookmark{
			Type:        BookmarkParticlePeak,
			Frame:       stats.WindowEndFrame,
			SimTimeSec:  stats.SimTimeSec,
			Description: fmt.Sprintf("%d live particles, %.1fx average (%.0f)", stats.Active(), ratio, avg),
		}
	}
	return nil
}

// checkBurstStorm fires when a window has at least twice the usual bursts.
func (bd *BookmarkDetector) checkBurstStorm(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Bursts
	}
	avg := float64(total) / float64(len(history))

	if float64(stats.Bursts) > avg*2.0 && stats.Bursts >= 5 {
		return &Bookmark{
			Type:        BookmarkBurstStorm,
			Frame:       stats.WindowEndFrame,
			SimTimeSec:  stats.SimTimeSec,
			Description: fmt.Sprintf("%d bursts against an average of %.1f", stats.Bursts, avg),
		}
	}
	return nil
}

// checkSkyCleared fires once when a busy sky goes dark.
func (bd *BookmarkDetector) checkSkyCleared(stats WindowStats) *Bookmark {
	if bd.recentPeak < 100 || stats.Active() > 0 {
		return nil
	}
	peak := bd.recentPeak
	bd.recentPeak = 0
	return &Bookmark{
		Type:        BookmarkSkyCleared,
		Frame:       stats.WindowEndFrame,
		SimTimeSec:  stats.SimTimeSec,
		Description: fmt.Sprintf("Sky cleared after a peak of %d particles", peak),
	}
}
