package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Code != "" {
		return fmt.Sprintf("api error (%d %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	message := payload.Error
	if message == "" {
		message = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Code: payload.Code, Message: message}
}

func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// IsInsufficientBalance reports whether err is the hub's affordability
// rejection. Callers treat it as a prompt to re-confirm spending, not as a
// generic failure.
func IsInsufficientBalance(err error) bool {
	apiErr := AsAPIError(err)
	if apiErr == nil {
		return false
	}
	return apiErr.StatusCode == http.StatusPaymentRequired
}

func IsNotFound(err error) bool {
	apiErr := AsAPIError(err)
	if apiErr == nil {
		return false
	}
	return apiErr.StatusCode == http.StatusNotFound
}
