package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidCredentials is returned by Login for any non-2xx answer.
var ErrInvalidCredentials = errors.New("invalid credentials")

// RequestError is a non-2xx answer from the API.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// NetworkError means the request never produced an HTTP answer.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNotFound reports a 404 RequestError anywhere in err's chain.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}

// errorMessage pulls the server message out of an error body. Servers in the
// wild use "message", some "error" or "detail".
func errorMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, m := range []string{payload.Message, payload.Error, payload.Detail} {
			if m = strings.TrimSpace(m); m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}
