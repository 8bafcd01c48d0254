package logger

import (
	"regexp"
	"strings"
)

// Sensitive patterns filtered from log messages
var (
	passwordPattern  = regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s]+`)
	tokenPattern     = regexp.MustCompile(`(?i)(token|session|cookie)[\s:=]+[^\s]+`)
	secretPattern    = regexp.MustCompile(`(?i)(secret|private[_-]?key|access[_-]?key)[\s:=]+[^\s]+`)
	signaturePattern = regexp.MustCompile(`data:image/[a-zA-Z0-9.+-]+;base64,[A-Za-z0-9+/=]+`)
)

const redactedPlaceholder = "[REDACTED]"

var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"token", "session", "cookie",
	"secret", "private_key", "access_key",
	"signature",
}

// SanitizeLogMessage removes credentials and signature payloads from a message
func SanitizeLogMessage(message string) string {
	message = passwordPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = signaturePattern.ReplaceAllString(message, redactedPlaceholder)
	return message
}

// SanitizeMap redacts values whose key looks sensitive
func SanitizeMap(data map[string]any) map[string]any {
	sanitized := make(map[string]any, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			sanitized[k] = redactedPlaceholder
			continue
		}
		sanitized[k] = v
	}
	return sanitized
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitiveKey := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitiveKey) {
			return true
		}
	}
	return false
}
