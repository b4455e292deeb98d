// ABOUTME: Sparkline widget renders the score trend of successive attempts
// ABOUTME: Percentages map onto block heights on a fixed 0-100 scale

package widgets

import (
	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are the Unicode block characters for different heights
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// ScoreTrend renders up to width percentages, most recent last. Older
// attempts beyond width are dropped.
func ScoreTrend(percents []int, width int) string {
	if len(percents) == 0 || width <= 0 {
		return ""
	}
	if len(percents) > width {
		percents = percents[len(percents)-width:]
	}

	var out string
	for _, p := range percents {
		color, _ := LevelFromScore(p).colors()
		out += lipgloss.NewStyle().Foreground(color).Render(string(percentToBlock(p)))
	}
	return out
}

// percentToBlock maps 0..100 onto the block range
func percentToBlock(p int) rune {
	p = max(0, min(p, 100))
	idx := p * (len(SparklineBlocks) - 1) / 100
	return SparklineBlocks[idx]
}
