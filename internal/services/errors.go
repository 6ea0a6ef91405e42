package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
)

// maskNotFound translates a record-not-found into a scoped NotFound with a
// uniform message, so "missing" and "belongs to another household" are
// indistinguishable. Anything else is an internal failure.
func maskNotFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(msg)
	}
	return apierr.Internal(err)
}
