package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeUsernameTaken = "username_taken"

	// Quiz state errors
	ErrCodeInvalidState      = "invalid_state"
	ErrCodeNoMoreQuestions   = "no_more_questions"
	ErrCodeInvalidSessionID  = "invalid_session_id"
	ErrCodeInvalidQuestionID = "invalid_question_id"

	// Business logic errors
	ErrCodeRegistrationFailed = "registration_failed"
	ErrCodeLoginFailed        = "login_failed"
	ErrCodeStatsFetchFailed   = "stats_fetch_failed"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
