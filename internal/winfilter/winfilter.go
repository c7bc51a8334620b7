// Package winfilter implements the pure include/exclude window
// predicate described in spec §4.C.
package winfilter

import "strings"

// Filter is an ordered list of include patterns and an ordered list
// of exclude patterns, matched case-insensitively as substrings of
// either the app name or the window name.
type Filter struct {
	Include []string
	Exclude []string
}

// New builds a Filter from include/exclude pattern lists.
func New(include, exclude []string) Filter {
	return Filter{Include: include, Exclude: exclude}
}

// Accept reports whether a window identified by (appName, windowName)
// passes the filter: it must match at least one include pattern (or
// the include list must be empty) and no exclude pattern.
func (f Filter) Accept(appName, windowName string) bool {
	for _, pat := range f.Exclude {
		if matches(pat, appName, windowName) {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, pat := range f.Include {
		if matches(pat, appName, windowName) {
			return true
		}
	}
	return false
}

func matches(pattern, appName, windowName string) bool {
	p := strings.ToLower(pattern)
	return strings.Contains(strings.ToLower(appName), p) || strings.Contains(strings.ToLower(windowName), p)
}
