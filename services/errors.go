package services

import (
	"errors"

	"github.com/junaidrashid-git/shop-api/apperror"
	"gorm.io/gorm"
)

// storeErr maps a record-store error: missing rows become NotFound with the
// given message, anything else is Internal.
func storeErr(err error, notFoundFormat string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(notFoundFormat, args...)
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(err, "record store failure")
}

// passThrough keeps typed errors raised inside a transaction and wraps the rest.
func passThrough(err error, format string, args ...any) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(err, format, args...)
}
