package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// DefaultErrorTitle is used when the server did not supply a title
const DefaultErrorTitle = "Request failed"

// DetailedError is the single user-facing error value returned by every API call
type DetailedError struct {
	Title       string
	Description string

	// StatusCode is 0 for transport and decoding failures
	StatusCode int
	Err        error
}

func (e *DetailedError) Error() string {
	if e.Description == "" {
		return e.Title
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Description)
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// errorBody is the {title, description} error payload of the posts API
type errorBody struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// transportError wraps a failure to reach the server
func transportError(err error) *DetailedError {
	description := "unknown"
	if err != nil {
		description = err.Error()
	}
	return &DetailedError{Title: DefaultErrorTitle, Description: description, Err: err}
}

// ParseError turns a non-2xx response into a DetailedError. A body that is not
// a {title, description} object with a title falls back to the HTTP status text.
func ParseError(resp *resty.Response) *DetailedError {
	status := resp.StatusCode()

	var body errorBody
	if err := decode(resp.Body(), &body); err == nil {
		return &DetailedError{Title: body.Title, Description: body.Description, StatusCode: status}
	}

	return &DetailedError{Title: DefaultErrorTitle, Description: http.StatusText(status), StatusCode: status}
}

// malformed builds the error for a 2xx response whose body failed validation
func malformed(title, description string, cause error) *DetailedError {
	return &DetailedError{Title: title, Description: description, Err: cause}
}

// IsNotFound checks if err is a 404 from the API
func IsNotFound(err error) bool {
	var de *DetailedError
	return errors.As(err, &de) && de.StatusCode == http.StatusNotFound
}

// IsServerError checks if err is a 5xx from the API
func IsServerError(err error) bool {
	var de *DetailedError
	return errors.As(err, &de) && de.StatusCode >= http.StatusInternalServerError
}
