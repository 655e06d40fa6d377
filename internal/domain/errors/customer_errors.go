package errors

import "errors"

var (
	// ErrUserNotFound indicates that the referenced user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrNoSubscriptionPlan indicates that no subscription plan is configured
	ErrNoSubscriptionPlan = errors.New("no subscription plan configured")
)
