package httpclient

import "fmt"

// HTTPError represents a non-2xx HTTP response.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	const maxBody = 200
	body := string(e.Body)
	if len(body) > maxBody {
		body = body[:maxBody] + "..."
	}
	if body == "" {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	return fmt.Sprintf("http status %d: %s", e.StatusCode, body)
}

// IsStatus reports whether err is an *HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	httpErr, ok := err.(*HTTPError)
	return ok && httpErr.StatusCode == code
}
