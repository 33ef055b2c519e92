package apiclient

import "fmt"

// TransportError is a non-success HTTP response from the scanning
// service. Message carries the server-supplied error text when present,
// otherwise the HTTP status text.
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("API error: %s", e.Message)
}

// SchemaError is a response body that failed structural validation.
// Partial or malformed server data is rejected rather than silently
// accepted.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("malformed server response: %s", e.Message)
}
