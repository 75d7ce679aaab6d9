package output

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/dotcommander/dreamboard/internal/models"
)

// Response represents a standard JSON response
type Response struct {
	SchemaVersion   string            `json:"schema_version"`
	Success         bool              `json:"success"`
	Degraded        bool              `json:"degraded,omitempty"`
	Data            any               `json:"data,omitempty"`
	Error           string            `json:"error,omitempty"`
	ErrorCode       string            `json:"error_code,omitempty"`
	ErrorContext    map[string]string `json:"error_context,omitempty"`
	SuggestedAction string            `json:"suggested_action,omitempty"`
}

// recoverableError mirrors models.RecoverableError locally so the output
// package keeps a narrow surface.
type recoverableError interface {
	error
	ErrorCode() string
	Context() map[string]string
	SuggestedAction() string
}

var _ recoverableError = (models.RecoverableError)(nil)

// Success wraps a successful response with data
func Success(data any) Response {
	return Response{
		SchemaVersion: "v1",
		Success:       true,
		Data:          data,
	}
}

// Degraded wraps fallback data served in place of live data.
func Degraded(data any) Response {
	r := Success(data)
	r.Degraded = true
	return r
}

// Error wraps an error in a response. Recoverable errors also populate
// error_code, error_context and suggested_action.
func Error(err error) Response {
	resp := Response{
		SchemaVersion: "v1",
		Success:       false,
		Error:         err.Error(),
	}
	var re recoverableError
	if errors.As(err, &re) {
		resp.ErrorCode = re.ErrorCode()
		resp.ErrorContext = re.Context()
		resp.SuggestedAction = re.SuggestedAction()
	}
	return resp
}

// Config controls where and how JSON is written.
type Config struct {
	Writer io.Writer
	Pretty bool
}

// DefaultConfig writes to stdout; DREAMBOARD_PRETTY_JSON=1 enables indentation.
func DefaultConfig() Config {
	v := os.Getenv("DREAMBOARD_PRETTY_JSON")
	return Config{
		Writer: os.Stdout,
		Pretty: v == "1" || v == "true",
	}
}

// PrintWith encodes v as JSON using cfg.
func PrintWith(cfg Config, v any) error {
	enc := json.NewEncoder(cfg.Writer)
	if cfg.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// Print prints a value as JSON to stdout
func Print(v any) error {
	return PrintWith(DefaultConfig(), v)
}

// PrintSuccess prints a success response
func PrintSuccess(data any) error {
	return Print(Success(data))
}

// PrintResult prints data, flagging it as degraded when it is fallback content.
func PrintResult(data any, degraded bool) error {
	if degraded {
		return Print(Degraded(data))
	}
	return Print(Success(data))
}

// PrintError prints an error response
func PrintError(err error) error {
	return Print(Error(err))
}
