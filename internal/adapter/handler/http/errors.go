package http

import (
	"errors"

	domainErrors "github.com/wekeepgrowing/shop-stripe/internal/domain/errors"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/provider"
	apperrors "github.com/wekeepgrowing/shop-stripe/pkg/errors"
	"go.uber.org/zap"
)

// toAppError maps domain and provider failures onto application error codes
func toAppError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var providerErr *provider.ProviderError
	switch {
	case errors.As(err, &providerErr):
		return apperrors.NewValidationError(providerErr.Message, err)
	case errors.Is(err, domainErrors.ErrCartNotFound),
		errors.Is(err, domainErrors.ErrOrderNotFound),
		errors.Is(err, domainErrors.ErrUserNotFound):
		return apperrors.NewAppError(apperrors.ErrNotFound, err.Error(), err)
	case errors.Is(err, domainErrors.ErrPermissionDenied):
		return apperrors.NewAppError(apperrors.ErrUnauthorized, err.Error(), err)
	case errors.Is(err, domainErrors.ErrTransitionNotAllowed),
		errors.Is(err, domainErrors.ErrNotFullyPaid):
		return apperrors.NewAppError(apperrors.ErrFailedPrecondition, err.Error(), err)
	case errors.Is(err, domainErrors.ErrEmptyCart),
		errors.Is(err, domainErrors.ErrCartWithoutUser),
		errors.Is(err, domainErrors.ErrCurrencyMismatch):
		return apperrors.NewValidationError(err.Error(), err)
	default:
		return apperrors.NewAppError(apperrors.ErrInternal, "Internal server error", err)
	}
}

func handleError(logger *zap.Logger, err error, msg string, fields ...zap.Field) error {
	appErr := toAppError(err)
	apperrors.LogError(logger, appErr, msg, fields...)
	return appErr
}
