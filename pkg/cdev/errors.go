package cdev

import "fmt"

// ConnectionError reports that the server could not be reached during the
// discovery handshake. A client whose Connect returned this is not usable.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to server: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProtocolError reports that the server answered but the body could not be
// decoded into the expected resource shape.
type ProtocolError struct {
	Resource string // what was being decoded, e.g. "namespace list"
	Err      error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid server response for %s: %v", e.Resource, e.Err)
	}
	return "invalid server response for " + e.Resource
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// TransportError reports an in-flight request failure after construction:
// either the HTTP exchange itself failed (Status 0, Err set) or the server
// answered with a non-2xx status. These are always propagated, never
// swallowed — an empty result is never a disguised transport failure.
type TransportError struct {
	Method string
	URL    string
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: server returned HTTP %d: %s", e.Method, e.URL, e.Status, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a required field missing from a server JSON object.
// Optional fields never produce a DecodeError — they are simply absent.
type DecodeError struct {
	Entity string
	Field  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: missing required field %q", e.Entity, e.Field)
}
