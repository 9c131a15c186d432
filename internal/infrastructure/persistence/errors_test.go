package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

// fakePgError mimics the driver's error type without importing it
type fakePgError struct {
	code string
}

func (e *fakePgError) Error() string    { return "pg error " + e.code }
func (e *fakePgError) SQLState() string { return e.code }

func TestTranslateConflict(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, translateConflict(nil))
	})

	t.Run("serialization failure becomes conflict", func(t *testing.T) {
		err := translateConflict(&fakePgError{code: "40001"})
		assert.ErrorIs(t, err, shared.ErrTransactionConflict)
	})

	t.Run("deadlock becomes conflict", func(t *testing.T) {
		err := translateConflict(&fakePgError{code: "40P01"})
		assert.ErrorIs(t, err, shared.ErrTransactionConflict)
	})

	t.Run("unique violation becomes conflict", func(t *testing.T) {
		err := translateConflict(&fakePgError{code: "23505"})
		assert.ErrorIs(t, err, shared.ErrTransactionConflict)
	})

	t.Run("wrapped driver errors are unwrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("commit failed: %w", &fakePgError{code: "40001"})
		err := translateConflict(wrapped)
		assert.ErrorIs(t, err, shared.ErrTransactionConflict)
	})

	t.Run("other errors pass through unchanged", func(t *testing.T) {
		original := errors.New("connection refused")
		assert.Equal(t, original, translateConflict(original))
	})

	t.Run("other SQL states pass through unchanged", func(t *testing.T) {
		original := &fakePgError{code: "23503"}
		err := translateConflict(original)
		assert.NotErrorIs(t, err, shared.ErrTransactionConflict)
	})
}
