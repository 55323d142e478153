package disk

import "fmt"

// ParseError reports input that is not a recognizable share link or hash.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return e.Reason
}

// APIError reports a failed remote call. StatusCode is zero for transport
// failures and for well-formed responses whose content is unusable.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + " failed"
}

func (e *APIError) Unwrap() error {
	return e.Err
}
