package utils

import "fmt"

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrDuplicate    = "DUPLICATE"
	ErrInvalidInput = "INVALID_INPUT"

	// Authorization errors (ownership checks only; sessions live elsewhere)
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN"

	// User errors
	ErrUserNotFound      = "USER_NOT_FOUND"
	ErrUserAlreadyExists = "USER_ALREADY_EXISTS"

	// Mood record errors
	ErrRecordNotFound  = "RECORD_NOT_FOUND"
	ErrMalformedRecord = "MALFORMED_RECORD" // stored document failed strict enum parse

	// Comment errors
	ErrCommentNotFound    = "COMMENT_NOT_FOUND"
	ErrReplyDepthExceeded = "REPLY_DEPTH_EXCEEDED"

	// Follow errors
	ErrFollowNotFound      = "FOLLOW_NOT_FOUND"
	ErrAlreadyFollowing    = "ALREADY_FOLLOWING"
	ErrFollowRequestExists = "FOLLOW_REQUEST_EXISTS"

	// Actor communication errors
	ErrActorTimeout    = "ACTOR_TIMEOUT"
	ErrActorNotFound   = "ACTOR_NOT_FOUND"
	ErrMessageRejected = "MESSAGE_REJECTED"

	// Rate limiting
	ErrTooManyRequests = "TOO_MANY_REQUESTS"

	ErrDatabase = "database_error"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewUserNotFoundError(username string) *AppError {
	return &AppError{
		Code:    ErrUserNotFound,
		Message: "User not found: " + username,
	}
}

func NewRecordNotFoundError(recordID string) *AppError {
	return &AppError{
		Code:    ErrRecordNotFound,
		Message: "Mood record not found: " + recordID,
	}
}

func NewMalformedRecordError(recordID string, cause error) *AppError {
	return &AppError{
		Code:    ErrMalformedRecord,
		Message: fmt.Sprintf("Stored record %s is malformed", recordID),
		Origin:  cause,
	}
}

func NewUnauthorizedError(reason string) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "Unauthorized: " + reason,
	}
}

func NewActorTimeoutError(actorName string) *AppError {
	return &AppError{
		Code:    ErrActorTimeout,
		Message: "Actor communication timeout: " + actorName,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound, ErrUserNotFound, ErrRecordNotFound, ErrCommentNotFound, ErrFollowNotFound, ErrActorNotFound:
		return 404 // http.StatusNotFound
	case ErrInvalidInput, ErrReplyDepthExceeded, ErrMalformedRecord:
		return 400 // http.StatusBadRequest
	case ErrUnauthorized:
		return 401 // http.StatusUnauthorized
	case ErrForbidden:
		return 403 // http.StatusForbidden
	case ErrDuplicate, ErrUserAlreadyExists, ErrAlreadyFollowing, ErrFollowRequestExists:
		return 409 // http.StatusConflict
	case ErrTooManyRequests:
		return 429 // http.StatusTooManyRequests
	case ErrDatabase, ErrActorTimeout, ErrMessageRejected:
		return 500 // http.StatusInternalServerError
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
