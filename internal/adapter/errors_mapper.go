package adapter

import (
	"fmt"
	"net/http"
	"strings"
)

func mapHTTPError(method, target string, resp *Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	statusErr := &StatusError{
		Method:     method,
		URL:        target,
		StatusCode: resp.StatusCode,
		Status:     status,
		Body:       strings.TrimSpace(string(resp.Content)),
		Headers:    resp.Headers,
	}

	switch code := resp.StatusCode; {
	case code == http.StatusBadRequest:
		statusErr.kind = ErrBadRequest
	case code == http.StatusUnauthorized:
		statusErr.kind = ErrUnauthorized
	case code == http.StatusForbidden:
		statusErr.kind = ErrForbidden
	case code == http.StatusNotFound:
		statusErr.kind = ErrNotFound
	case code == http.StatusConflict:
		statusErr.kind = ErrConflict
	case code == http.StatusPreconditionFailed:
		statusErr.kind = ErrPrecondition
	case code >= http.StatusInternalServerError:
		statusErr.kind = ErrServerError
	default:
		statusErr.kind = ErrUnexpectedCode
	}

	return statusErr
}
