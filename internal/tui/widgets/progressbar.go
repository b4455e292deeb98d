// ABOUTME: Score bar with a pass-mark zone and per-question answer dots
// ABOUTME: Used by the quiz and results screens

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ScoreBarConfig holds configuration for the score bar
type ScoreBarConfig struct {
	Width      int
	PassMark   float64 // percentage marked on the empty part of the bar
	EmptyColor lipgloss.Color
}

// DefaultScoreBarConfig returns sensible defaults
func DefaultScoreBarConfig() ScoreBarConfig {
	return ScoreBarConfig{
		Width:      30,
		PassMark:   50,
		EmptyColor: lipgloss.Color("#374151"),
	}
}

// ScoreBar renders percent as a bar colored by LevelFromScore
func ScoreBar(percent float64, config ScoreBarConfig) string {
	if config.Width <= 0 {
		config.Width = 30
	}
	percent = max(0, min(percent, 100))

	filled := int(percent / 100.0 * float64(config.Width))
	mark := int(config.PassMark / 100.0 * float64(config.Width))
	fillColor, _ := LevelFromScore(int(percent)).colors()

	fillStyle := lipgloss.NewStyle().Foreground(fillColor)
	emptyStyle := lipgloss.NewStyle().Foreground(config.EmptyColor)

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < config.Width; i++ {
		switch {
		case i < filled:
			bar.WriteString(fillStyle.Render("█"))
		case config.PassMark > 0 && i == mark:
			bar.WriteString(emptyStyle.Render("│"))
		default:
			bar.WriteString(emptyStyle.Render("░"))
		}
	}
	bar.WriteString("]")
	return bar.String()
}

// ScoreBarWithLabel appends the rounded percentage and a status icon
func ScoreBarWithLabel(percent float64, config ScoreBarConfig) string {
	level := LevelFromScore(int(percent))
	color, _ := level.colors()
	label := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%3.0f%%", percent))
	return fmt.Sprintf("%s %s %s", ScoreBar(percent, config), label, StatusIcon(level))
}

// AnswerDots renders one dot per question: filled when answered,
// highlighted at the current position
func AnswerDots(answered []bool, current int) string {
	answeredStyle := lipgloss.NewStyle().Foreground(BadgeOKBg)
	currentStyle := lipgloss.NewStyle().Foreground(BadgeInfoBg).Bold(true)
	emptyStyle := lipgloss.NewStyle().Foreground(BadgeNeutralBg)

	dots := make([]string, len(answered))
	for i, ok := range answered {
		glyph := "○"
		if ok {
			glyph = "●"
		}
		switch {
		case i == current:
			dots[i] = currentStyle.Render(glyph)
		case ok:
			dots[i] = answeredStyle.Render(glyph)
		default:
			dots[i] = emptyStyle.Render(glyph)
		}
	}
	return strings.Join(dots, " ")
}
