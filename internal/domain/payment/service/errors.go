package service

import "errors"

var (
	ErrUnsupportedMethod = errors.New("unsupported payment method")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidSignature  = errors.New("invalid payment signature")
	ErrNotCODOrder       = errors.New("this order is not a COD order")
	ErrPaymentDone       = errors.New("payment already completed")
	ErrRefundNotAllowed  = errors.New("only cancelled orders can be refunded")
	ErrAlreadyRefunded   = errors.New("order already refunded")
	ErrGatewayDisabled   = errors.New("payment gateway is not configured")
)
