package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers return an empty Attr for absent values, which slog drops.
// This allows log.Info("msg", logger.Error(err)) without nil checks.

// ============================================================================
// Error Handling
// ============================================================================

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// ============================================================================
// Timing
// ============================================================================

// Elapsed logs the duration since start.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// ============================================================================
// Identifiers
// ============================================================================

// CorrelationID tags every line of one logical operation.
func CorrelationID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("correlation_id", id)
}

// MemberNo is the storefront account number. Not a secret.
func MemberNo(n int64) slog.Attr {
	if n <= 0 {
		return slog.Attr{}
	}
	return slog.Int64("member_no", n)
}

// ProductNo is the numeric store product id.
func ProductNo(n int64) slog.Attr {
	if n <= 0 {
		return slog.Attr{}
	}
	return slog.Int64("product_no", n)
}

// GameID is the string game id used by the developer and meta endpoints.
func GameID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("game_id", id)
}

// ============================================================================
// Network and HTTP
// ============================================================================

// Method creates an attribute for HTTP methods.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// URL creates an attribute for request or page addresses.
func URL(u string) slog.Attr {
	if u == "" {
		return slog.Attr{}
	}
	return slog.String("url", u)
}

// StatusCode creates an attribute for HTTP status codes.
func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// Page is the 1-based page number of a paginated call.
func Page(n int) slog.Attr {
	return slog.Int("page", n)
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// State names a state machine state.
func State(name string) slog.Attr {
	return slog.String("state", name)
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// RetryCount creates an attribute for retry attempts.
func RetryCount(count int) slog.Attr {
	return slog.Int("retry_count", count)
}
