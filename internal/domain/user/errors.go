package user

import "errors"

var (
	ErrIdentityMissing         = errors.New("employee identity missing from token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
