// ABOUTME: Local registration checks run before any request is sent
// ABOUTME: Strength rules beyond length are enforced by the backend

package auth

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// MinPasswordLength matches the backend's minimum
const MinPasswordLength = 8

var (
	ErrPasswordMismatch = errors.New("Les mots de passe ne correspondent pas")
	ErrPasswordTooShort = fmt.Errorf("Le mot de passe doit contenir au moins %d caractères", MinPasswordLength)
)

// ValidateRegistration checks the confirmation first, then the length
func ValidateRegistration(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
