package store

import (
	"errors"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgFKViolation     = "23503"
	pgValueTooLong    = "22001"
)

// translate maps driver and gorm errors onto apperr kinds. what names the
// entity for the message, e.g. "post".
func translate(err error, what string) error {
	if err == nil {
		return nil
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(what + " not found")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Wrap(err, apperr.KindAlreadyExists, what+" already exists")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Wrap(err, apperr.KindAlreadyExists, what+" already exists")
		case pgCheckViolation:
			return apperr.Wrap(err, apperr.KindValidation, "invalid "+what)
		case pgFKViolation:
			return apperr.Wrap(err, apperr.KindNotFound, "referenced row not found")
		case pgValueTooLong:
			return apperr.Wrap(err, apperr.KindValidation, what+" field is too long")
		}
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return apperr.Wrap(err, apperr.KindValidation, "invalid "+what)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperr.Wrap(err, apperr.KindNotFound, "referenced row not found")
	}

	return apperr.Internal(err)
}
