package gerr

import (
	"errors"
	"net/http"
)

// Code is a stable, machine-readable error code carried in the response
// envelope. Clients switch on codes, never on message text.
type Code string

const (
	CodeInvalidRequest     Code = "invalid_request"
	CodeNotFound           Code = "not_found"
	CodeAlreadyExists      Code = "already_exists"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeAccountNotClaimed  Code = "account_not_claimed"
	CodeTokenExpired       Code = "token_expired"
	CodeUnauthorized       Code = "unauthorized"
	CodeInternal           Code = "internal"
)

// Error is an application error exposed through the API envelope.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrAlreadySubscribed = New(CodeAlreadyExists, "submitted email already on the waitlist")
	ErrSignupNotFound    = New(CodeNotFound, "waitlist signup not found")
	ErrProviderNotFound  = New(CodeNotFound, "provider signup not found")
	ErrProviderExists    = New(CodeAlreadyExists, "provider signup already exists for this email")

	// ErrAccountNotClaimed and ErrInvalidCredentials are distinguishable on
	// purpose: the login modal flips between Login and Claim mode on them.
	ErrAccountNotClaimed  = New(CodeAccountNotClaimed, "Account not set up properly. Please set a password to claim your account.")
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password")

	ErrVerificationExpired = New(CodeTokenExpired, "verification link has expired")
	ErrVerificationInvalid = New(CodeInvalidRequest, "invalid verification token")

	BadMailRequest      = New(CodeInternal, "bad mail request")
	MailApiLimitReached = New(CodeInternal, "mail api limit reached")
)

// CodeOf extracts the application code from err, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// HTTPStatus maps an application error to an HTTP status code.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodeInvalidCredentials, CodeAccountNotClaimed, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeTokenExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
