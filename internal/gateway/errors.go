package gateway

import "fmt"

// Capability names one of the remote backends reached through the gateway.
type Capability string

const (
	CapabilityPatients Capability = "patients"
	CapabilityNotes    Capability = "notes"
	CapabilityRisk     Capability = "risk"
)

const bodySnippetLimit = 512

// CallError reports a non-2xx response or transport failure from a
// gateway call. StatusCode is 0 for transport failures. The body snippet
// is truncated so a misbehaving backend cannot flood logs.
type CallError struct {
	Capability Capability
	Operation  string
	StatusCode int
	Body       string
	cause      error
}

func (e *CallError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("gateway %s %s: %v", e.Capability, e.Operation, e.cause)
	}
	if e.Body != "" {
		return fmt.Sprintf("gateway %s %s: status %d: %s", e.Capability, e.Operation, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("gateway %s %s: status %d", e.Capability, e.Operation, e.StatusCode)
}

func (e *CallError) Unwrap() error {
	return e.cause
}

func transportError(capability Capability, op string, err error) *CallError {
	return &CallError{Capability: capability, Operation: op, cause: err}
}

func statusError(capability Capability, op string, status int, body []byte) *CallError {
	snippet := string(body)
	if len(snippet) > bodySnippetLimit {
		snippet = snippet[:bodySnippetLimit]
	}
	return &CallError{Capability: capability, Operation: op, StatusCode: status, Body: snippet}
}
