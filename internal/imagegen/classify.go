package imagegen

import "strings"

// ErrorKind is the closed taxonomy for remote edit failures. The remote
// boundary only returns free-text messages, so callers get a stable category
// to act on instead of provider-internal codes.
type ErrorKind string

const (
	KindIncompatibleFormat  ErrorKind = "incompatible_format"
	KindTimeout             ErrorKind = "timeout"
	KindQuotaExceeded       ErrorKind = "quota_exceeded"
	KindAuthenticationError ErrorKind = "authentication_error"
	KindModelUnavailable    ErrorKind = "model_unavailable"
	KindUnknownRemoteError  ErrorKind = "unknown_remote_error"
)

// Classify maps a free-text remote error message onto an ErrorKind by
// case-insensitive substring matching. Precedence is fixed: image/parameter
// shape errors win over timeouts, which win over quota, auth and model
// availability; anything unmatched is reported as unknown with the message
// preserved verbatim by the caller.
func Classify(message string) ErrorKind {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "images") || strings.Contains(msg, "parameter"):
		return KindIncompatibleFormat
	case strings.Contains(msg, "timeout"):
		return KindTimeout
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit"):
		return KindQuotaExceeded
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "token"):
		return KindAuthenticationError
	case strings.Contains(msg, "model"):
		return KindModelUnavailable
	default:
		return KindUnknownRemoteError
	}
}
