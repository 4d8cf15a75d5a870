package fallback

import "strings"

// SafeString returns a trimmed string or the provided fallback.
func SafeString(value string, fb string) string {
	if s := strings.TrimSpace(value); s != "" {
		return s
	}
	return fb
}

// ErrorMessage returns the error's message or the provided fallback for nil/blank errors.
func ErrorMessage(err error, fb string) string {
	if err == nil {
		return fb
	}
	return SafeString(err.Error(), fb)
}
