package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/telecare/telecare-api/internal/domain/repository"
)

func TestTranslateError(t *testing.T) {
	other := errors.New("connection refused")

	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows becomes not found", pgx.ErrNoRows, repository.ErrNotFound},
		{"unique violation becomes duplicate", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_uq"}, repository.ErrDuplicate},
		{"malformed uuid becomes not found", &pgconn.PgError{Code: "22P02"}, repository.ErrNotFound},
		{"other pg errors pass through", &pgconn.PgError{Code: "53300"}, nil},
		{"other errors pass through", other, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := translateError(tc.in)
			if tc.want != nil {
				assert.ErrorIs(t, got, tc.want)
				return
			}
			// Pass-through cases keep the original error untouched.
			assert.Equal(t, tc.in, got)
		})
	}
}
