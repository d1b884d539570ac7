package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when a login attempt fails.
	// Deliberately the same for a wrong username and a wrong password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrTokenInvalid is returned when a JWT fails signature, expiry or
	// shape validation.
	ErrTokenInvalid = errors.New("auth: token invalid")

	// ErrTicketInvalid is returned when a WebSocket ticket is unknown,
	// expired or already redeemed.
	ErrTicketInvalid = errors.New("auth: ticket invalid")
)
