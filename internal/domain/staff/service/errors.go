package service

import "errors"

var (
	ErrStaffNotFound      = errors.New("staff not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrRoleMismatch       = errors.New("role mismatch")
	ErrNotDeliveryBoy     = errors.New("only delivery boys can perform this operation")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAdminExists        = errors.New("first admin already exists")
)
