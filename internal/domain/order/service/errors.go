package service

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrNotAssigned      = errors.New("order not found or not assigned to you")
	ErrNotCancellable   = errors.New("only pending orders can be cancelled")
	ErrInvalidStatus    = errors.New("invalid order status")
	ErrInvalidAssignee  = errors.New("invalid admin or admin not active")
	ErrDeliveryNotFound = errors.New("delivery boy not found")
	ErrNotCODOrder      = errors.New("this order is not a COD order")
	ErrPaymentDone      = errors.New("payment already completed")
)

// AmountMismatchError 货到付款核验金额不符，携带期望和实收金额
type AmountMismatchError struct {
	Expected int64
	Received int64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("Amount mismatch. Expected: ₹%d, Received: ₹%d", e.Expected, e.Received)
}
