package weburl

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is matched by every *ParseError.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrInvalidTuple a query pair does not have exactly two elements
	ErrInvalidTuple = errors.New("each query pair must be an iterable [name, value] tuple")
	// ErrMissingArgs a required argument was omitted
	ErrMissingArgs = errors.New("missing required argument")
	// ErrInvalidCallable the callback is not a function
	ErrInvalidCallable = errors.New("callback is not a function")
	// ErrInvalidReceiver the receiver is not the expected type
	ErrInvalidReceiver = errors.New("invalid receiver")
	// ErrImmutableProperty the property is read-only
	ErrImmutableProperty = errors.New("property is read-only")
)

// ParseError the URL parse error
type ParseError struct {
	Input string
	Base  string
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("invalid URL %q", e.Input)
	if e.Base != "" {
		msg += fmt.Sprintf(" with base %q", e.Base)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}
	return msg
}

func (e *ParseError) String() string { return e.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(err error) bool { return err == ErrInvalidURL }

// HostParseError the host parse error
type HostParseError struct {
	Host   string
	Reason string
}

func (e *HostParseError) Error() string {
	return fmt.Sprintf("invalid host %q: %s", e.Host, e.Reason)
}

func (e *HostParseError) String() string { return e.Error() }

// validation failures raised by the state machine
var (
	errMissingScheme     = errors.New("missing scheme")
	errMissingHost       = errors.New("missing host")
	errInvalidCredential = errors.New("credentials without host")
	errInvalidPort       = errors.New("invalid port")
	errOverride          = errors.New("rejected by state override")
)
