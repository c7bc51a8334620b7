// Package browserurl extracts the active tab URL from a focused
// browser window via an OS automation bridge (spec §4.F). Extraction
// is best-effort: an unrecognized browser or unsupported platform
// answers ("", false, nil); a probe that fails returns an error, which
// the capture loop logs and treats as "no URL", so a missing URL never
// fails the surrounding capture tick.
package browserurl

import (
	"context"
	"strings"
)

// BrowserTokens are recognized case-insensitive substrings of an app
// name that mark it as a browser worth probing.
var BrowserTokens = []string{
	"chrome", "firefox", "safari", "edge", "brave", "arc", "chromium", "vivaldi", "opera",
}

// IsBrowser reports whether appName names a recognized browser.
func IsBrowser(appName string) bool {
	lower := strings.ToLower(appName)
	for _, tok := range BrowserTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// Extractor reads the active tab URL of a focused browser window.
type Extractor interface {
	// GetActiveURL returns the URL, whether one was found, and any
	// hard error. A false ok with a nil error means "nothing to
	// report" — not a failure.
	GetActiveURL(ctx context.Context, appName string, processID int) (url string, ok bool, err error)
}

// noop is the Extractor for platforms with no automation bridge.
type noop struct{}

func (noop) GetActiveURL(ctx context.Context, appName string, processID int) (string, bool, error) {
	return "", false, nil
}
