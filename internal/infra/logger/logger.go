package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey is the context key carrying the per-request correlation id.
type RequestIDKey struct{}

var (
	log  *zap.Logger
	once sync.Once
)

// Init builds the process-wide logger. Development environments get the
// human-readable console encoder, everything else structured JSON.
func Init(env string) *zap.Logger {
	once.Do(func() {
		var cfg zap.Config
		if env == "development" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			cfg = zap.NewProductionConfig()
			cfg.EncoderConfig.TimeKey = "timestamp"
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		}

		var err error
		log, err = cfg.Build(zap.AddCallerSkip(0))
		if err != nil {
			log = zap.NewNop()
		}
	})
	return log
}

// L returns the initialized logger, falling back to a no-op logger so
// library code never has to nil-check.
func L() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Sync flushes buffered log entries. Safe to call on shutdown.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

// MaskEmail hides the local part of an address, keeping the first rune
// and the full domain: "alice@example.com" -> "a***@example.com".
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// MaskPhone keeps the last four digits of a phone number.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return "***"
	}
	return "***" + phone[len(phone)-4:]
}

// MaskIP zeroes the host portion of an IPv4 address and truncates IPv6.
func MaskIP(ip string) string {
	if idx := strings.LastIndex(ip, "."); idx > 0 {
		return ip[:idx] + ".0"
	}
	if idx := strings.Index(ip, ":"); idx > 0 {
		return ip[:idx] + "::"
	}
	return "***"
}

// MaskString keeps the first and last rune of a value.
func MaskString(s string) string {
	if len(s) <= 2 {
		return "***"
	}
	return s[:1] + "***" + s[len(s)-1:]
}
