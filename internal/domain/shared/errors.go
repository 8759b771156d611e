package shared

// ErrorKind classifies a domain error so callers can decide how to react.
type ErrorKind string

const (
	// KindValidation means the caller supplied bad input; retrying is pointless.
	KindValidation ErrorKind = "VALIDATION"
	// KindConsistency means the operation conflicts with current state
	// (insufficient stock, unbalanced posting); callers may retry after
	// re-reading state.
	KindConsistency ErrorKind = "CONSISTENCY"
	// KindConflict means the aggregate was modified concurrently; the correct
	// caller behavior is reload-and-retry.
	KindConflict ErrorKind = "CONFLICT"
	// KindStorage means persistence failed mid-operation; fatal for the request.
	KindStorage ErrorKind = "STORAGE"
)

// DomainError represents a domain-level error with a machine-readable code
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new validation-kind domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

// NewConsistencyError creates a domain error that depends on current state
func NewConsistencyError(code, message string) *DomainError {
	return &DomainError{Kind: KindConsistency, Code: code, Message: message}
}

// NewConflictError creates a concurrency-conflict domain error
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

// NewStorageError creates a storage-failure domain error
func NewStorageError(code, message string) *DomainError {
	return &DomainError{Kind: KindStorage, Code: code, Message: message}
}

// Common domain errors
var (
	ErrNotFound                = &DomainError{Kind: KindValidation, Code: "NOT_FOUND", Message: "Resource not found"}
	ErrAlreadyExists           = &DomainError{Kind: KindValidation, Code: "ALREADY_EXISTS", Message: "Resource already exists"}
	ErrInvalidInput            = &DomainError{Kind: KindValidation, Code: "INVALID_INPUT", Message: "Invalid input provided"}
	ErrInvalidState            = &DomainError{Kind: KindValidation, Code: "INVALID_STATE", Message: "Operation not allowed in current state"}
	ErrConcurrencyConflict     = &DomainError{Kind: KindConflict, Code: "CONCURRENCY_CONFLICT", Message: "Resource was modified by another process"}
	ErrInsufficientStock       = &DomainError{Kind: KindConsistency, Code: "INSUFFICIENT_STOCK", Message: "Insufficient stock available"}
	ErrInsufficientReservation = &DomainError{Kind: KindConsistency, Code: "INSUFFICIENT_RESERVATION", Message: "Insufficient reserved stock"}
	ErrUnbalancedEntry         = &DomainError{Kind: KindConsistency, Code: "UNBALANCED_ENTRY", Message: "Journal entry debits and credits do not balance"}
	ErrInvalidPostingAmount    = &DomainError{Kind: KindValidation, Code: "INVALID_POSTING_AMOUNT", Message: "Posting amount must be positive"}
	ErrEntryPosted             = &DomainError{Kind: KindValidation, Code: "ENTRY_POSTED", Message: "Posted journal entries are read-only"}
	ErrStorageFailure          = &DomainError{Kind: KindStorage, Code: "STORAGE_FAILURE", Message: "Storage operation failed"}
)
