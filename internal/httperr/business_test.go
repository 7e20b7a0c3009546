package httperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsBusiness(t *testing.T) {
	err := fmt.Errorf("wrap: %w", ErrBusiness("invalid_state"))

	assert.True(t, IsBusiness(err, "invalid_state"))
	assert.False(t, IsBusiness(err, "time_conflict"))
	assert.False(t, IsBusiness(errors.New("invalid_state"), "invalid_state"))
}

func TestValidationFields(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		fields := ValidationFields(ErrValidation("client_name", "client_name_required"))
		assert.Equal(t, []ValidationError{{Field: "client_name", Code: "client_name_required"}}, fields)
	})

	t.Run("joined keeps every field in order", func(t *testing.T) {
		err := errors.Join(
			ErrValidation("procedure", "procedure_required"),
			ErrValidation("professional", "professional_required"),
		)
		fields := ValidationFields(err)
		assert.Len(t, fields, 2)
		assert.Equal(t, "procedure", fields[0].Field)
		assert.Equal(t, "professional", fields[1].Field)
	})

	t.Run("other errors", func(t *testing.T) {
		assert.Empty(t, ValidationFields(errors.New("boom")))
		assert.Empty(t, ValidationFields(nil))
	})
}

func TestPostgresViolations(t *testing.T) {
	unique := fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"})
	exclusion := &pgconn.PgError{Code: "23P01"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsExclusionConflict(unique))
	assert.True(t, IsExclusionConflict(exclusion))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}
