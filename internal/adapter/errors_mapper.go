package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	return NewAPIError(resp.StatusCode(), extractDetail(resp.Body()))
}

// NewAPIError builds the error of a non-2xx response with status code and
// server detail, wrapping the sentinel of the status.
func NewAPIError(statusCode int, detail string) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Detail:     detail,
	}

	switch statusCode {
	case http.StatusBadRequest:
		apiErr.sentinel = ErrBadRequest
	case http.StatusUnauthorized:
		apiErr.sentinel = ErrUnauthorized
	case http.StatusPaymentRequired:
		apiErr.sentinel = ErrPaymentRequired
	case http.StatusForbidden:
		apiErr.sentinel = ErrForbidden
	case http.StatusNotFound:
		apiErr.sentinel = ErrNotFound
	case http.StatusConflict:
		apiErr.sentinel = ErrConflict
	case http.StatusUnprocessableEntity:
		apiErr.sentinel = ErrUnprocessable
	case http.StatusTooManyRequests:
		apiErr.sentinel = ErrTooManyRequests
	case http.StatusBadGateway:
		apiErr.sentinel = ErrBadGateway
	case http.StatusInternalServerError:
		apiErr.sentinel = ErrInternalServerError
	default:
		apiErr.sentinel = ErrUnexpectedStatus
	}

	return apiErr
}

// extractDetail reads the "detail" member of a JSON error body. String
// details are returned as is; structured ones (validation lists) are
// returned as compact JSON.
func extractDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	if bytes.Equal(envelope.Detail, []byte("null")) {
		return ""
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, envelope.Detail); err != nil {
		return ""
	}
	return compact.String()
}

func isJSONResponse(resp *resty.Response) bool {
	mediaType, _, err := mime.ParseMediaType(resp.Header().Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func decodeJSON(resp *resty.Response, v any) error {
	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	return nil
}
