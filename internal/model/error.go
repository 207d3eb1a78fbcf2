package model

// Standard error codes for run reporting and logs
const (
	ErrCodeRecordNotFound = "RECORD_NOT_FOUND"
	ErrCodeMissingID      = "MISSING_ID"
	ErrCodeFetchFailed    = "FETCH_FAILED"
	ErrCodeStoreFailure   = "STORE_FAILURE"
)

// DomainError carries a stable code alongside a human-readable message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrRecordNotFound = NewDomainError(ErrCodeRecordNotFound, "No record stored under that product ID")
	ErrMissingID      = NewDomainError(ErrCodeMissingID, "Feed item is missing a product ID")
	ErrFetchFailed    = NewDomainError(ErrCodeFetchFailed, "Feed could not be retrieved")
)
