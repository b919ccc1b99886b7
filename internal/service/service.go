package service

import (
	"Go_Stow/internal/apperr"
	"Go_Stow/utils"
	"context"
	"errors"

	"gorm.io/gorm"
)

// Mailer delivers verification codes.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, code string) error
}

var mailer Mailer = utils.LogMailer{}

// SetMailer replaces the mailer used by signup and resend.
func SetMailer(m Mailer) {
	if m == nil {
		m = utils.LogMailer{}
	}
	mailer = m
}

// dbErr translates gorm errors into typed errors; notFound is the detail for a missing row.
func dbErr(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("already exists")
	}
	var typed *apperr.Error
	if errors.As(err, &typed) {
		return err
	}
	return apperr.Internal(err)
}
