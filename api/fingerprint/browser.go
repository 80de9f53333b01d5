package fingerprint

import "strings"

// Browser families reported by DetectBrowser.
const (
	BrowserFirefox = "firefox"
	BrowserEdge    = "edge"
	BrowserChrome  = "chrome"
	BrowserSafari  = "safari"
	BrowserOther   = "other"
)

// DetectBrowser classifies a user agent by ordered substring checks. Chromium
// Edge carries both "Chrome" and "Edg", and Chrome carries "Safari", so the
// order below matters.
func DetectBrowser(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Firefox"):
		return BrowserFirefox
	case strings.Contains(userAgent, "Edg"):
		return BrowserEdge
	case strings.Contains(userAgent, "Chrome"):
		return BrowserChrome
	case strings.Contains(userAgent, "Safari"):
		return BrowserSafari
	default:
		return BrowserOther
	}
}
