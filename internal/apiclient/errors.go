package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxDisplayBody is how much of a non-JSON body is kept for display.
const MaxDisplayBody = 120

// ErrRequestFailed wraps transport failures (DNS, refused connection, timeouts).
var ErrRequestFailed = errors.New("request failed")

// APIError is a non-2xx response, or a response whose body is not JSON.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	// NonJSON marks a body that could not be parsed; Message then holds the
	// truncated body.
	NonJSON bool
}

func (e *APIError) Error() string {
	if e.NonJSON {
		return fmt.Sprintf("%s %s: non-JSON response (status %d): %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// UserMessage is the text shown to the user.
func (e *APIError) UserMessage() string {
	if e.NonJSON {
		return "Unexpected server response: " + e.Message
	}
	return e.Message
}

// errorBody covers the message shapes the API uses: {msg}, {message} and
// {error: "..."} or {error: {message}}.
type errorBody struct {
	Msg     string          `json:"msg"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func (b errorBody) text() string {
	if b.Msg != "" {
		return b.Msg
	}
	if b.Message != "" {
		return b.Message
	}
	if len(b.Error) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(b.Error, &s); err == nil {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b.Error, &nested); err == nil {
		return nested.Message
	}
	return ""
}

// truncate shortens s to MaxDisplayBody runes, appending "..." when cut.
func truncate(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxDisplayBody {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxDisplayBody]) + "..."
}
