package persistence

import (
	"errors"
	"fmt"

	"github.com/boothledger/backend/internal/domain/shared"
)

// Postgres SQLSTATE codes that indicate a transaction lost a race and can be
// retried by the caller.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateUniqueViolation      = "23505"
)

// sqlStater is satisfied by the pgx driver's PgError without importing it.
type sqlStater interface {
	SQLState() string
}

// translateConflict maps retryable Postgres failures to the domain conflict
// error. Unique violations are included: under concurrent receipt allocation
// the (tenant_id, receipt_number) index is what actually fires.
func translateConflict(err error) error {
	if err == nil {
		return nil
	}
	var pgErr sqlStater
	if errors.As(err, &pgErr) {
		switch pgErr.SQLState() {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateUniqueViolation:
			return fmt.Errorf("%w: %v", shared.ErrTransactionConflict, err)
		}
	}
	return err
}
