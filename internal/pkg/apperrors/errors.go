package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Infrastructure errors
	ErrPersistence = errors.New("persistence failure")
)

// Domain lookups. Each wraps ErrResourceNotFound so callers can match either.
var (
	ErrUserNotFound     = &CustomError{Err: ErrResourceNotFound, Message: "user not found"}
	ErrCourseNotFound   = &CustomError{Err: ErrResourceNotFound, Message: "course not found"}
	ErrLectureNotFound  = &CustomError{Err: ErrResourceNotFound, Message: "lecture not found"}
	ErrPurchaseNotFound = &CustomError{Err: ErrResourceNotFound, Message: "purchase/user/course not found"}
)

// User errors
var (
	ErrEmailAlreadyExists = &CustomError{Err: ErrResourceAlreadyExists, Message: "email already exists"}
)

// Purchase workflow errors
var (
	// ErrSignatureInvalid is returned when a webhook payload fails verification
	ErrSignatureInvalid = errors.New("webhook signature verification failed")
	// ErrCheckoutDeclined is returned when the gateway did not hand back a session URL
	ErrCheckoutDeclined = errors.New("error while creating session")
	// ErrLectureLocked is returned when a caller requests a lecture they have not unlocked
	ErrLectureLocked = &CustomError{Err: ErrPermissionDenied, Message: "lecture is locked until the course is purchased"}
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewPersistenceError wraps a storage failure so handlers can map it to 500
func NewPersistenceError(message string, cause error) error {
	return &CustomError{
		Err:     errors.Join(ErrPersistence, cause),
		Message: message,
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// Message extracts the user facing message of err, falling back to fallback
func Message(err error, fallback string) string {
	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}
