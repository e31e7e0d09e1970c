package model

import "errors"

// Result is the uniform outcome shape handed to UI code: one pattern for
// displaying failures across auth and submission flows.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// UserMessager is implemented by errors that carry a message meant for display,
// such as the server-provided message of an API error.
type UserMessager interface {
	UserMessage() string
}

// ResultOf converts an error returned by a component into a Result.
func ResultOf(err error) Result {
	if err == nil {
		return Result{Success: true}
	}

	var um UserMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return Result{Success: false, Error: msg}
		}
	}
	return Result{Success: false, Error: err.Error()}
}
