package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Messages holds resource-specific wording for classified errors.
type Messages struct {
	// InsufficientData is used for 422 responses whose body has no message.
	InsufficientData string
	// Failure prefixes generic failures, e.g. "Failed to fetch insights".
	Failure string
}

const (
	authExpiredMessage      = "Authentication expired"
	rateLimitedMessage      = "Too many requests. Please wait a moment before trying again."
	insufficientDataDefault = "Not enough data is available yet for this request"
	failureDefault          = "Request failed"
)

// Classify maps a non-2xx response to a typed error. It must only be called
// when resp.OK() is false.
func Classify(resp RawResponse, msgs Messages) *Error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &Error{Kind: KindAuthExpired, Status: resp.StatusCode, Message: authExpiredMessage}
	case http.StatusUnprocessableEntity:
		msg := bodyMessage(resp.Body)
		if msg == "" {
			msg = msgs.InsufficientData
		}
		if msg == "" {
			msg = insufficientDataDefault
		}
		return &Error{Kind: KindInsufficientData, Status: resp.StatusCode, Message: msg}
	case http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Status: resp.StatusCode, Message: rateLimitedMessage}
	default:
		prefix := msgs.Failure
		if prefix == "" {
			prefix = failureDefault
		}
		return &Error{
			Kind:    KindGeneric,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("%s: %s", prefix, statusText(resp)),
		}
	}
}

// bodyMessage returns the top-level string "message" field. Bodies that are
// not valid JSON are treated as an empty object.
func bodyMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	m := gjson.GetBytes(body, "message")
	if m.Type != gjson.String {
		return ""
	}
	return m.Str
}

func statusText(resp RawResponse) string {
	if t := http.StatusText(resp.StatusCode); t != "" {
		return t
	}
	if s := strings.TrimSpace(resp.Status); s != "" {
		return s
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
