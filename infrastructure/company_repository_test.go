package infrastructure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"jobly/apperror"
)

func TestDuplicateCompany(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "handle",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "companies_pkey"},
			want: "Duplicate company: c1",
		},
		{
			name: "name",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "idx_companies_name"},
			want: "Duplicate company name: C1",
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "companies_pkey"}),
			want: "Duplicate company: c1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := assert.New(t)
			a.True(isDuplicateKey(tt.err))
			err := duplicateCompany(tt.err, "c1", "C1")
			a.ErrorIs(err, apperror.ErrBadRequest)
			a.EqualError(err, tt.want)
		})
	}

	assert.Empty(t, constraintName(errors.New("boom")))
}
