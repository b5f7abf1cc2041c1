package logging

import (
	"log/slog"
	"strings"
)

// secretKeyPatterns contains substrings that indicate a key likely holds
// sensitive data. Keys are matched case-insensitively.
var secretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"PRIVATE",
}

// tokenPrefixes contains known token prefixes that indicate sensitive values
// regardless of key name.
var tokenPrefixes = []string{
	"sword:", // deposit tokens
	"ghp_",   // GitHub personal access token
	"gho_",   // GitHub OAuth token
	"ghs_",   // GitHub server-to-server token
	"sk-",    // API secret keys
	"AKIA",   // AWS access key prefix
	"xoxb-",  // Slack bot token
	"xoxp-",  // Slack user token
}

// MaskValue masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// ShouldMask reports whether a key name suggests a sensitive value.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range secretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix reports whether value starts with a known token prefix.
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// redactAttr is a slog.HandlerOptions.ReplaceAttr function that names
// LevelTrace and masks sensitive values.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if l, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, levelName(l))
		}
		return a
	}
	if a.Value.Kind() == slog.KindGroup {
		return a
	}
	if v := a.Value.Resolve().String(); ShouldMask(a.Key) || ContainsTokenPrefix(v) {
		return slog.String(a.Key, MaskValue(v))
	}
	return a
}
