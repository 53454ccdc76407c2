package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type ValidationError struct {
	ErrorMessage
}

// DatabaseError wraps a failure returned by a store backend.
type DatabaseError struct {
	Operation string
	Code      string
	Message   string
	Err       error
}

func (e *DatabaseError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// ExternalServiceError wraps a failure talking to an upstream HTTP service.
type ExternalServiceError struct {
	Service   string
	Message   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{Operation: operation, Message: message, Err: err}
}

// NewDatabaseErrorCode is NewDatabaseError carrying a backend status code.
func NewDatabaseErrorCode(operation, code, message string, err error) *DatabaseError {
	return &DatabaseError{Operation: operation, Code: code, Message: message, Err: err}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Message: message, Transient: transient, Err: err}
}
