// ABOUTME: Display helpers for session records
// ABOUTME: Device and browser from the user agent, French relative times

package sessions

import (
	"fmt"
	"strings"
	"time"
)

// ExpiringWindow is how close to expiry a session is flagged
const ExpiringWindow = 15 * time.Minute

// DeviceType classifies a user agent as "Mobile" or "Ordinateur"
func DeviceType(ua string) string {
	ua = strings.ToLower(ua)
	for _, marker := range []string{"mobile", "android", "iphone"} {
		if strings.Contains(ua, marker) {
			return "Mobile"
		}
	}
	return "Ordinateur"
}

// BrowserName names the browser in a user agent. Edge and Opera are checked
// before Chrome since their agents also contain "Chrome".
func BrowserName(ua string) string {
	ua = strings.ToLower(ua)
	switch {
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "edg"):
		return "Edge"
	case strings.Contains(ua, "opr") || strings.Contains(ua, "opera"):
		return "Opera"
	case strings.Contains(ua, "chrome"):
		return "Chrome"
	case strings.Contains(ua, "safari"):
		return "Safari"
	default:
		return "Navigateur"
	}
}

// RelativeTime renders t relative to now, in French
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "jamais"
	}
	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}

	var span string
	switch {
	case d < time.Minute:
		return "à l'instant"
	case d < time.Hour:
		span = fmt.Sprintf("%d min", int(d.Minutes()))
	case d < 24*time.Hour:
		span = plural(int(d.Hours()), "heure")
	case d < 30*24*time.Hour:
		span = plural(int(d.Hours()/24), "jour")
	case d < 365*24*time.Hour:
		span = fmt.Sprintf("%d mois", int(d.Hours()/(24*30)))
	default:
		span = plural(int(d.Hours()/(24*365)), "an")
	}

	if future {
		return "dans " + span
	}
	return "il y a " + span
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, unit)
	}
	return fmt.Sprintf("%d %s", n, unit)
}

// FormatExpiry renders an expiry as dd/mm/yyyy hh:mm in local time
func FormatExpiry(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02/01/2006 15:04")
}

// ExpiringSoon reports whether t falls within ExpiringWindow of now
func ExpiringSoon(t, now time.Time) bool {
	return !t.IsZero() && !t.After(now.Add(ExpiringWindow))
}
