package pkg

import "fmt"

// AppError is an error already translated for the HTTP boundary.
type AppError struct {
	Code       string
	Message    string
	Details    string
	Err        error
	HTTPStatus int
}

// HTTPError is the JSON envelope returned to callers on failure.
type HTTPError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

func NewDomainError(code, message string, err error, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, Err: err, HTTPStatus: httpStatus}
}

func NewDomainErrorSimple(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// WithDetails returns a copy carrying caller-safe details, cut to maxDetailsLen.
func (e *AppError) WithDetails(details string) *AppError {
	cp := *e
	cp.Details = trimDetails(details)
	return &cp
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// ToHTTPError never exposes Err; only Details reach the caller.
func (e *AppError) ToHTTPError() HTTPError {
	return HTTPError{Error: e.Message, Code: e.Code, Details: e.Details}
}

const maxDetailsLen = 256

func trimDetails(s string) string {
	r := []rune(s)
	if len(r) <= maxDetailsLen {
		return s
	}
	return string(r[:maxDetailsLen-3]) + "..."
}
