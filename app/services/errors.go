package services

import "errors"

// ErrNotFound is returned when a referenced product or order id does not
// exist. Handlers surface it as a 404, never as a crash.
var ErrNotFound = errors.New("record not found")

// ErrInvalidCredentials is returned on login when the email is unknown or
// the password does not match. The two cases are deliberately
// indistinguishable.
var ErrInvalidCredentials = errors.New("invalid email or password")
