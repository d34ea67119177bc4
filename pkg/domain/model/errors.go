package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrUserNotFound       = goerr.New("user not found")
	ErrAlertNotFound      = goerr.New("alert not found")
	ErrInvalidCredentials = goerr.New("invalid username or password")
	ErrAccountDeactivated = goerr.New("account is deactivated")
	ErrInvalidToken       = goerr.New("invalid or expired token")
	ErrInvalidAlert       = goerr.New("invalid alert")
)
