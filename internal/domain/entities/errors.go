package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by the order adapter. Every error returned by the use case
// matches exactly one of them through errors.Is.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrProviderRequestFailed = errors.New("provider request failed")
	ErrTransportFailure      = errors.New("provider transport failure")
)

// InputError carries the reason a request was rejected before the provider was called.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return ErrInvalidInput.Error() + ": " + e.Reason }

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// InvalidInputf builds an *InputError with a formatted reason.
func InvalidInputf(format string, args ...any) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// ProviderErrorDetail is one entry of the provider's diagnostic list.
type ProviderErrorDetail struct {
	Field       string `json:"field,omitempty"`
	Issue       string `json:"issue,omitempty"`
	Description string `json:"description,omitempty"`
}

// ProviderError is an application-level rejection returned by the payment provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Name       string
	Message    string
	DebugID    string
	Details    []ProviderErrorDetail
}

func (e *ProviderError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Provider)
	sb.WriteString(": ")
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, "status=%d ", e.StatusCode)
	}
	if e.Name != "" {
		sb.WriteString(e.Name)
		sb.WriteString(" ")
	}
	sb.WriteString(e.Message)
	for _, d := range e.Details {
		fmt.Fprintf(&sb, " [%s %s %s]", d.Issue, d.Field, d.Description)
	}
	if e.DebugID != "" {
		sb.WriteString(" debug_id=")
		sb.WriteString(e.DebugID)
	}
	return sb.String()
}

func (e *ProviderError) Unwrap() error { return ErrProviderRequestFailed }

// Summary is the short, caller-safe form of the provider diagnostic.
func (e *ProviderError) Summary() string {
	msg := strings.TrimSpace(e.Message)
	if e.Name != "" {
		if msg == "" {
			msg = e.Name
		} else {
			msg = e.Name + ": " + msg
		}
	}
	if len(e.Details) > 0 && e.Details[0].Issue != "" {
		msg += " (" + e.Details[0].Issue + ")"
	}
	return msg
}

// TransportError means the provider call did not complete at all.
type TransportError struct {
	Provider string
	Op       string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransportFailure, e.Err} }
