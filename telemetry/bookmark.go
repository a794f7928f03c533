package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkLongRallies     BookmarkType = "long_rallies"
	BookmarkAIDominance     BookmarkType = "ai_dominance"
	BookmarkPlayerDominance BookmarkType = "player_dominance"
	BookmarkSpeedCap        BookmarkType = "speed_cap"
	BookmarkBalancedMatch   BookmarkType = "balanced_match"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	TimeSec     float64      `csv:"time"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"time", b.TimeSec,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a match.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	maxSpeed float64

	speedCapSeen        bool
	balancedWindowCount int
}

// NewBookmarkDetector creates a detector with the given history size.
// maxSpeed is the rebound speed cap.
func NewBookmarkDetector(historySize int, maxSpeed float64) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for balanced match detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
		maxSpeed:    maxSpeed,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkLongRallies(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkDominance(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSpeedCap(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkBalanced(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
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

// checkLongRallies fires when the window's mean rally is over twice the
// rolling average.
func (bd *BookmarkDetector) checkLongRallies(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Rallies == 0 {
		return nil
	}

	var sum float64
	var n int
	for _, h := range history {
		if h.Rallies > 0 {
			sum += h.RallyMean
			n++
		}
	}
	if n == 0 || sum == 0 {
		return nil
	}
	avg := sum / float64(n)

	if stats.RallyMean > avg*2.0 && stats.RallyMean >= 4 {
		return &Bookmark{
			Type:        BookmarkLongRallies,
			TimeSec:     stats.WindowEndSec,
			Description: fmt.Sprintf("Mean rally %.1f hits is %.1fx average (%.1f)", stats.RallyMean, stats.RallyMean/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkDominance(stats WindowStats) *Bookmark {
	points := stats.PlayerPoints + stats.AIPoints
	if points < 4 {
		return nil
	}
	switch {
	case stats.AIPointShare >= 0.8:
		return &Bookmark{
			Type:        BookmarkAIDominance,
			TimeSec:     stats.WindowEndSec,
			Description: fmt.Sprintf("AI took %d of %d points", stats.AIPoints, points),
		}
	case stats.AIPointShare <= 0.2:
		return &Bookmark{
			Type:        BookmarkPlayerDominance,
			TimeSec:     stats.WindowEndSec,
			Description: fmt.Sprintf("Player took %d of %d points", stats.PlayerPoints, points),
		}
	}
	return nil
}

// checkSpeedCap fires the first time a rebound reaches the speed cap.
func (bd *BookmarkDetector) checkSpeedCap(stats WindowStats) *Bookmark {
	if bd.speedCapSeen || bd.maxSpeed <= 0 {
		return nil
	}
	if stats.PeakSpeed >= bd.maxSpeed-1e-9 {
		bd.speedCapSeen = true
		return &Bookmark{
			Type:        BookmarkSpeedCap,
			TimeSec:     stats.WindowEndSec,
			Description: fmt.Sprintf("Ball reached the speed cap %.1f", bd.maxSpeed),
		}
	}
	return nil
}

// checkBalanced fires once after five consecutive windows with an even
// point share.
func (bd *BookmarkDetector) checkBalanced(stats WindowStats) *Bookmark {
	if stats.PlayerPoints+stats.AIPoints == 0 {
		return nil
	}
	if stats.AIPointShare >= 0.4 && stats.AIPointShare <= 0.6 {
		bd.balancedWindowCount++
	} else {
		bd.balancedWindowCount = 0
	}

	if bd.balancedWindowCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkBalancedMatch,
			TimeSec:     stats.WindowEndSec,
			Description: fmt.Sprintf("Even match over 5 windows at %d - %d", stats.PlayerScore, stats.AIScore),
		}
	}
	return nil
}
