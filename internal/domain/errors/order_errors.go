package errors

import "errors"

var (
	// ErrOrderNotFound indicates that no order matches the given number
	ErrOrderNotFound = errors.New("order not found")

	// ErrCartNotFound indicates that the user has no cart
	ErrCartNotFound = errors.New("cart not found")

	// ErrCartWithoutUser indicates that a cart is not bound to a customer
	ErrCartWithoutUser = errors.New("cart is not assigned to a user")

	// ErrEmptyCart indicates that checkout was attempted on a cart without items
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCurrencyMismatch indicates that a charge was made in a currency other than the order's
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrTransitionNotAllowed indicates that the order status does not permit the transition
	ErrTransitionNotAllowed = errors.New("transition not allowed from current status")

	// ErrNotFullyPaid indicates that the order payments do not cover the order total
	ErrNotFullyPaid = errors.New("order is not fully paid")

	// ErrPermissionDenied indicates that the transition requires staff permissions
	ErrPermissionDenied = errors.New("permission denied")
)
