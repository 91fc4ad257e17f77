// Package device derives a human-readable device description from the
// User-Agent header. The description is attached to deletion audit events so
// operators can see which device asked for an account to be removed.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent returns a short "Browser on Platform" display string.
// Unparseable or empty agents collapse to "Unknown Device".
func ParseUserAgent(ua string) string {
	if strings.TrimSpace(ua) == "" {
		return "Unknown Device"
	}

	parsed := useragent.New(ua)
	browser, _ := parsed.Browser()
	os := parsed.OSInfo().Name
	if os == "" {
		os = parsed.Platform()
	}

	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	default:
		return "Unknown Device"
	}
}
