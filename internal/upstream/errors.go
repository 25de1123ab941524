package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Common errors returned by the upstream client.
var (
	// ErrUnauthorized means the upstream rejected the bearer token. The
	// session layer treats this as fatal: cookie cleared, login redirect.
	ErrUnauthorized = errors.New("upstream session is no longer valid")

	ErrNotFound = errors.New("not found upstream")

	// ErrUnavailable covers transport-level failures after retries.
	ErrUnavailable = errors.New("clinic API is unreachable")
)

// GenericMessage is shown to the user when the upstream gives no usable
// error message of its own.
const GenericMessage = "Something went wrong. Please try again."

// APIError carries an upstream-provided error message along with the HTTP
// status it arrived with.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

// UserMessage extracts the message a notice should show for an upstream
// failure: the backend's own message when there is one, a generic fallback
// otherwise.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericMessage
}

// wireError is the upstream error envelope. The backend is inconsistent
// about the field name, so both are tried.
type wireError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func errorFromResponse(resp *resty.Response) error {
	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}

	var we wireError
	msg := ""
	if err := json.Unmarshal(resp.Body(), &we); err == nil {
		if we.Message != "" {
			msg = we.Message
		} else if we.Error != "" {
			msg = we.Error
		}
	}
	return &APIError{Status: resp.StatusCode(), Message: msg}
}
