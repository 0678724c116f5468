package services

import (
	"errors"

	"powcost/internal/kv"
	"powcost/internal/store"

	apperrors "powcost/internal/errors"
)

// storeError maps a store write failure to an AppError.
func storeError(err error) error {
	switch {
	case errors.Is(err, kv.ErrQuotaExceeded):
		return apperrors.Wrap(apperrors.ErrStorageQuotaExceeded, err)
	case errors.Is(err, store.ErrUnknownProject):
		return apperrors.Wrap(apperrors.ErrProjectNotFound, err)
	default:
		return apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}
}
