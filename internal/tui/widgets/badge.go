// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Roles, account state, login type and session markers

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/icons"
)

// Level represents the severity of a status
type Level int

const (
	LevelOK Level = iota
	LevelWarning
	LevelCritical
	LevelInfo
	LevelNeutral
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
)

func (l Level) colors() (bg, fg lipgloss.Color) {
	switch l {
	case LevelOK:
		return BadgeOKBg, lipgloss.Color("#FFFFFF")
	case LevelWarning:
		return BadgeWarnBg, lipgloss.Color("#000000")
	case LevelCritical:
		return BadgeCritBg, lipgloss.Color("#FFFFFF")
	case LevelInfo:
		return BadgeInfoBg, lipgloss.Color("#FFFFFF")
	default:
		return BadgeNeutralBg, lipgloss.Color("#FFFFFF")
	}
}

// Badge renders a colored inline badge
func Badge(text string, level Level) string {
	bg, fg := level.colors()
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// LevelFromScore grades a quiz percentage
func LevelFromScore(percent int) Level {
	switch {
	case percent >= 70:
		return LevelOK
	case percent >= 40:
		return LevelWarning
	default:
		return LevelCritical
	}
}

// StatusIcon returns the colored icon for a level
func StatusIcon(level Level) string {
	bg, _ := level.colors()
	style := lipgloss.NewStyle().Foreground(bg)
	switch level {
	case LevelOK:
		return style.Render(icons.CheckOK.String())
	case LevelWarning:
		return style.Render(icons.Warning.String())
	case LevelCritical:
		return style.Render(icons.Critical.String())
	case LevelInfo:
		return style.Render(icons.Info.String())
	default:
		return style.Render("•")
	}
}

// StatusText returns styled text prefixed with the level icon
func StatusText(text string, level Level) string {
	bg, _ := level.colors()
	return fmt.Sprintf("%s %s", StatusIcon(level), lipgloss.NewStyle().Foreground(bg).Render(text))
}

// RoleBadge marks administrators
func RoleBadge(superuser bool) string {
	if superuser {
		return Badge("Admin", LevelInfo)
	}
	return Badge("Utilisateur", LevelNeutral)
}

// AccountBadge shows whether an account can log in
func AccountBadge(active bool) string {
	if active {
		return Badge("Actif", LevelOK)
	}
	return Badge("Désactivé", LevelCritical)
}

// LoginBadge shows how an account authenticates
func LoginBadge(loginType string) string {
	if loginType == "oauth" {
		return Badge("Google", LevelInfo)
	}
	return Badge("Mot de passe", LevelNeutral)
}

// SessionBadge marks the caller's own session and sessions about to expire
func SessionBadge(current, expiringSoon bool) string {
	switch {
	case current:
		return Badge("Actuelle", LevelOK)
	case expiringSoon:
		return Badge("Expire bientôt", LevelWarning)
	default:
		return ""
	}
}
