// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: One glyph pair per navigation entry, action and status

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// terminals that usually ship with a patched font
var nerdFontTerminals = []string{"iTerm.app", "alacritty", "WezTerm", "kitty", "ghostty"}

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	// QUIZZ_NERD_FONTS=1|true|0|false wins over detection
	if env := os.Getenv("QUIZZ_NERD_FONTS"); env != "" {
		return env == "1" || strings.EqualFold(env, "true")
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")
	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	return os.Getenv("NERD_FONTS") == "1"
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Navigation
	Upload   = Icon{"󰈙", "⇪"} // nf-md-file_document
	Quiz     = Icon{"󰗊", "?"} // nf-md-head_question
	Folder   = Icon{"󰉋", "▤"} // nf-md-folder
	Sessions = Icon{"󰍹", "▣"} // nf-md-monitor
	Admin    = Icon{"󰒃", "⛊"} // nf-md-shield_check
	User     = Icon{"󰀄", "☺"} // nf-md-account
	Logout   = Icon{"󰍃", "⏻"} // nf-md-logout
	Google   = Icon{"󰊭", "G"} // nf-md-google

	// Status
	CheckOK  = Icon{"\uf058", "✓"} // nf-fa-check_circle
	Warning  = Icon{"\uf071", "⚠"} // nf-fa-warning
	Critical = Icon{"\uf057", "✗"} // nf-fa-times_circle
	Info     = Icon{"\uf05a", "ℹ"} // nf-fa-info_circle
	Current  = Icon{"󰄬", "*"} // nf-md-check

	// Actions
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Back    = Icon{"󰁍", "←"} // nf-md-arrow_left
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app
	Trash   = Icon{"󰩹", "⌫"} // nf-md-trash_can

	// Application
	App = Icon{"󰂺", "◈"} // nf-md-book_open_variant
)
