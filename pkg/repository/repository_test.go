package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/remit/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")
	fk := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("find: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"foreign key passthrough", fk, fk},
		{"other passthrough", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.MapError(tt.err, errNotFound, errDuplicate); got != tt.want {
				t.Errorf("MapError = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "submissions_approved_invoice_key",
	})

	if !repository.IsUniqueViolation(err, "") {
		t.Error("expected match without constraint filter")
	}
	if !repository.IsUniqueViolation(err, "submissions_approved_invoice_key") {
		t.Error("expected match on constraint name")
	}
	if repository.IsUniqueViolation(err, "submissions_pkey") {
		t.Error("unexpected match on different constraint")
	}
	if repository.IsUniqueViolation(errors.New("boom"), "") {
		t.Error("plain error is not a unique violation")
	}
}

func TestIsCheckViolation(t *testing.T) {
	if !repository.IsCheckViolation(&pgconn.PgError{Code: "23514"}) {
		t.Error("expected check violation")
	}
	if repository.IsCheckViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation is not a check violation")
	}
}
