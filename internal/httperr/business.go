package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// ValidationError bloqueia uma etapa por campo obrigatório ausente ou inválido.
type ValidationError struct {
	Field string
	Code  string
}

func (e ValidationError) Error() string {
	return "validation failed for " + e.Field + ": " + e.Code
}

func ErrValidation(field, code string) error {
	return ValidationError{Field: field, Code: code}
}

// ValidationFields devolve todos os ValidationError de um erro (inclusive errors.Join).
func ValidationFields(err error) []ValidationError {
	if err == nil {
		return nil
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []ValidationError
		for _, e := range joined.Unwrap() {
			out = append(out, ValidationFields(e)...)
		}
		return out
	}

	var ve ValidationError
	if errors.As(err, &ve) {
		return []ValidationError{ve}
	}
	return nil
}

// ======================================================
// Postgres
// ======================================================

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}
