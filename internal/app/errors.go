package app

import "fmt"

// DomainError is the service-layer error the HTTP handlers map straight onto
// a response: Status becomes the HTTP code, Code/Message/Details the JSON
// error body (VALIDATION_ERROR, DEAL_NOT_FOUND, DEAL_FIXED, ...).
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}
