package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/clinio/clinio-api/internal/repository"
	apperrors "github.com/clinio/clinio-api/pkg/errors"
)

const defaultTxTimeout = 5 * time.Second

type accountRepository struct {
	db        *sqlx.DB
	txTimeout time.Duration
}

type appointmentRepository struct {
	db        *sqlx.DB
	txTimeout time.Duration
}

func NewAccountRepository(db *sqlx.DB, txTimeout time.Duration) repository.AccountRepository {
	if txTimeout <= 0 {
		txTimeout = defaultTxTimeout
	}
	return &accountRepository{db: db, txTimeout: txTimeout}
}

func NewAppointmentRepository(db *sqlx.DB, txTimeout time.Duration) repository.AppointmentRepository {
	if txTimeout <= 0 {
		txTimeout = defaultTxTimeout
	}
	return &appointmentRepository{db: db, txTimeout: txTimeout}
}

// storeErr maps driver failures to the application taxonomy: unique
// violations become conflicts, lock contention and deadline expiry become a
// retryable busy error.
func storeErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return apperrors.Conflict("duplicate value", err)
		case "40001", "40P01", "55P03":
			return apperrors.Busy(err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.Busy(err)
	}
	return apperrors.Internal(err)
}

func notFoundOr(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(resource, err)
	}
	return storeErr(err)
}
