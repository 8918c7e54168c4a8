package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENT_MODIFICATION"
	// ErrCodeInvalidState is used when an operation is invalid for the current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Store error codes
const (
	// ErrCodeStoreAlreadyDecided is used when an approval decision was already made
	ErrCodeStoreAlreadyDecided = "ERR_STORE_ALREADY_DECIDED"
	// ErrCodeStoreNotEligible is used when a store cannot sell or redeem
	ErrCodeStoreNotEligible = "ERR_STORE_NOT_ELIGIBLE"
	// ErrCodePaymentNotConfigured is used when a store has no provider credentials
	ErrCodePaymentNotConfigured = "ERR_PAYMENT_NOT_CONFIGURED"
)

// Voucher error codes
const (
	// ErrCodeVoucherNotFound is used when no voucher matches the given code
	ErrCodeVoucherNotFound = "ERR_VOUCHER_NOT_FOUND"
	// ErrCodeWrongStore is used when a voucher is redeemed at another store
	ErrCodeWrongStore = "ERR_WRONG_STORE"
	// ErrCodeVoucherExpired is used when a voucher's validity window closed
	ErrCodeVoucherExpired = "ERR_VOUCHER_EXPIRED"
	// ErrCodeAlreadyRedeemed is used when a voucher was redeemed before
	ErrCodeAlreadyRedeemed = "ERR_ALREADY_REDEEMED"
	// ErrCodeCodeSpaceExhausted is used when code generation keeps colliding
	ErrCodeCodeSpaceExhausted = "ERR_CODE_SPACE_EXHAUSTED"
)

// Payment error codes
const (
	// ErrCodeAmountTooSmall is used when the amount is below the minimum charge
	ErrCodeAmountTooSmall = "ERR_AMOUNT_TOO_SMALL"
	// ErrCodePaymentFailed is used when the charge settled against the buyer
	ErrCodePaymentFailed = "ERR_PAYMENT_FAILED"
	// ErrCodeSessionExpired is used when the payment window has closed
	ErrCodeSessionExpired = "ERR_SESSION_EXPIRED"
	// ErrCodeSessionTerminal is used when a settled session is confirmed again
	ErrCodeSessionTerminal = "ERR_SESSION_TERMINAL"
	// ErrCodeGateway is used when the payment provider cannot be reached
	ErrCodeGateway = "ERR_GATEWAY"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,

	ErrCodeStoreAlreadyDecided:  http.StatusConflict,
	ErrCodeStoreNotEligible:     http.StatusUnprocessableEntity,
	ErrCodePaymentNotConfigured: http.StatusUnprocessableEntity,

	ErrCodeVoucherNotFound:    http.StatusNotFound,
	ErrCodeWrongStore:         http.StatusUnprocessableEntity,
	ErrCodeVoucherExpired:     http.StatusUnprocessableEntity,
	ErrCodeAlreadyRedeemed:    http.StatusConflict,
	ErrCodeCodeSpaceExhausted: http.StatusServiceUnavailable,

	ErrCodeAmountTooSmall:  http.StatusUnprocessableEntity,
	ErrCodePaymentFailed:   http.StatusUnprocessableEntity,
	ErrCodeSessionExpired:  http.StatusGone,
	ErrCodeSessionTerminal: http.StatusConflict,
	ErrCodeGateway:         http.StatusBadGateway,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to their wire format
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"FORBIDDEN":              ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":   ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":       ErrCodeValidation,
	"STORE_ALREADY_DECIDED":  ErrCodeStoreAlreadyDecided,
	"STORE_NOT_ELIGIBLE":     ErrCodeStoreNotEligible,
	"PAYMENT_NOT_CONFIGURED": ErrCodePaymentNotConfigured,
	"VOUCHER_NOT_FOUND":      ErrCodeVoucherNotFound,
	"WRONG_STORE":            ErrCodeWrongStore,
	"VOUCHER_EXPIRED":        ErrCodeVoucherExpired,
	"ALREADY_REDEEMED":       ErrCodeAlreadyRedeemed,
	"CODE_SPACE_EXHAUSTED":   ErrCodeCodeSpaceExhausted,
	"AMOUNT_TOO_SMALL":       ErrCodeAmountTooSmall,
	"PAYMENT_FAILED":         ErrCodePaymentFailed,
	"SESSION_NOT_FOUND":      ErrCodeNotFound,
	"SESSION_EXPIRED":        ErrCodeSessionExpired,
	"SESSION_TERMINAL":       ErrCodeSessionTerminal,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Codes already in the wire format or unknown are returned as-is.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}

// ValidationDetail describes a single field validation failure
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewErrorResponseWithRequestID creates an error response carrying the request ID
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// NewValidationErrorResponse creates a validation error response with field details
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      ErrCodeValidation,
			Message:   message,
			RequestID: requestID,
			Details:   details,
		},
	}
}
