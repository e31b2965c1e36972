package service

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found, please register first")
	ErrPhoneTaken      = errors.New("phone number already registered")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidOTP      = errors.New("invalid verification code")
	ErrAddressNotFound = errors.New("address not found")
	ErrUPINotFound     = errors.New("upi account not found")
)
