package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const maxErrorBody = 256

// NetworkError reports that no response was received: the connection could not be
// established, timed out, was cancelled, or broke before the body was read.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error calling %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError reports a response with a non-2xx status.
type ServerError struct {
	Op         string
	URL        string
	StatusCode int
	Status     string
	// Payload is the response body when it was valid JSON, nil otherwise.
	Payload json.RawMessage
	// Body is the raw response body, whatever its form.
	Body []byte
}

func (e *ServerError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("%s: fleet API returned %s", e.Op, e.statusText())
	}
	return fmt.Sprintf("%s: fleet API returned %s: %s", e.Op, e.statusText(), msg)
}

// Message extracts a human-readable message from the server payload, looking at the
// conventional "error" and "message" fields before falling back to the raw body.
func (e *ServerError) Message() string {
	if len(e.Payload) > 0 {
		var fields struct {
			Error   any    `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(e.Payload, &fields); err == nil {
			switch v := fields.Error.(type) {
			case string:
				if v != "" {
					return v
				}
			case map[string]any:
				if m, ok := v["message"].(string); ok && m != "" {
					return m
				}
			}
			if fields.Message != "" {
				return fields.Message
			}
		}
	}
	return truncate(strings.TrimSpace(string(e.Body)))
}

// Temporary reports whether the status suggests a later attempt may succeed.
func (e *ServerError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

func (e *ServerError) statusText() string {
	if e.Status != "" {
		return e.Status
	}
	return fmt.Sprintf("%d", e.StatusCode)
}

// DecodeError reports a 2xx response whose body is not the expected structure.
type DecodeError struct {
	Op   string
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v (body: %q)", e.Op, e.Err, truncate(string(e.Body)))
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err is, or wraps, a *NetworkError.
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// StatusCode returns the HTTP status carried by a *ServerError in err's chain, or 0.
func StatusCode(err error) int {
	var target *ServerError
	if errors.As(err, &target) {
		return target.StatusCode
	}
	return 0
}

// IsDecodeError reports whether err is, or wraps, a *DecodeError.
func IsDecodeError(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}
