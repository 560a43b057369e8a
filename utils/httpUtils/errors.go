package httpUtils

import (
	"fmt"
	"net/http"
)

type HttpError struct {
	StatusCode int
	Body       string
}

func (e *HttpError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("unexpected HTTP status: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	}
	return fmt.Sprintf("unexpected HTTP status: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *HttpError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
