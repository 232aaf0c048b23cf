package apiclient

import (
	"encoding/json"
	"fmt"

	"github.com/jrsteele09/wepark-client/internal/errors"
)

const (
	nonJSONMessage  = "Server returned non-JSON response"
	fallbackMessage = "Something went wrong!"
)

// Response is the normalised outcome of a backend call. Data always holds a
// JSON document: the backend's own body, a {message, raw} wrapper for
// non-JSON bodies, or an {error} object for transport failures.
type Response struct {
	OK     bool            // HTTP 2xx
	Status int             // HTTP status, 500 for transport failures
	Data   json.RawMessage // resData

	transportErr error
	nonJSON      bool
}

type messageBody struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Raw     string `json:"raw,omitempty"`
}

// Decode unmarshals Data into v. A body the server did not send as JSON
// fails with ErrNonJSON; read Data directly for the {message, raw} wrapper.
func (r Response) Decode(v any) error {
	if r.nonJSON {
		return errors.Wrapf(errors.ErrNonJSON, "decode response")
	}
	if len(r.Data) == 0 {
		return errors.Wrapf(errors.ErrInvalidRequest, "empty response body")
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return errors.Wrapf(err, "decode response")
	}
	return nil
}

// Message returns the server provided message, then the error field, then fallback.
func (r Response) Message(fallback string) string {
	var body messageBody
	if err := json.Unmarshal(r.Data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fallback
}

// Err converts a non-2xx response into an *errors.APIError using fallback
// when the server gave no message. It returns nil for 2xx responses. A
// transport failure also wraps ErrRequestFailed and the underlying error.
func (r Response) Err(fallback string) error {
	if r.OK {
		return nil
	}
	apiErr := errors.NewAPIError(r.Status, r.Message(fallback))
	if r.transportErr != nil {
		apiErr.Cause = fmt.Errorf("%w: %w", errors.ErrRequestFailed, r.transportErr)
	}
	return apiErr
}

// Transport reports whether the request failed before any response arrived.
func (r Response) Transport() bool {
	return r.transportErr != nil
}

func wrapBody(body messageBody) json.RawMessage {
	b, err := json.Marshal(body)
	if err != nil {
		return json.RawMessage(`{"error":"` + fallbackMessage + `"}`)
	}
	return b
}
