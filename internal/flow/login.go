package flow

import (
	gerr "github.com/peepeep/peepeep-manager/internal/errors"
)

// LoginMode is the mode the provider login screen is in.
type LoginMode string

const (
	ModeGuest    LoginMode = "guest"
	ModeLogin    LoginMode = "login"
	ModeClaim    LoginMode = "claim"
	ModeLoggedIn LoginMode = "logged_in"
)

// NextLoginMode computes the mode after a login attempt. A nil error means
// the session is established. An unclaimed account flips the screen into
// claim mode so the user can set a password; bad credentials keep the
// login form up. Any other failure resets to guest.
func NextLoginMode(cur LoginMode, err error) LoginMode {
	if err == nil {
		return ModeLoggedIn
	}
	switch gerr.CodeOf(err) {
	case gerr.CodeAccountNotClaimed:
		return ModeClaim
	case gerr.CodeInvalidCredentials:
		return ModeLogin
	default:
		return ModeGuest
	}
}
