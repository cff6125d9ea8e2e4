// Package clientinfo derives human readable client descriptions from
// User-Agent headers. Output feeds logs only; it is never an auth signal.
package clientinfo

import (
	"strings"

	"github.com/mssola/useragent"
)

// Describe returns a short client description in the form "Browser on OS",
// e.g. "Chrome on macOS" or "Safari on iPhone" for mobile clients.
func Describe(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		platform := ua.Platform()
		if platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}

// IsBot reports whether the client identifies itself as a crawler.
func IsBot(userAgentString string) bool {
	if userAgentString == "" {
		return false
	}
	return useragent.New(userAgentString).Bot()
}
