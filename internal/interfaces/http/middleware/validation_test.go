package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The gin validator reads binding tags, not validate tags
type validationFixture struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Email       string `json:"email" binding:"omitempty,email"`
	AmountCents int64  `json:"amount_cents" binding:"required,min=1"`
	Cadence     string `json:"cadence" binding:"required,oneof=weekly monthly"`
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	t.Run("reports each failed field by its json name", func(t *testing.T) {
		err := v.Struct(validationFixture{
			Email:   "not-an-email",
			Cadence: "daily",
		})
		require.Error(t, err)

		resp := FormatValidationErrors(err, "req-1")
		require.NotNil(t, resp.Error)
		assert.False(t, resp.Success)
		assert.Equal(t, "req-1", resp.Error.RequestID)

		fields := make(map[string]string)
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "This field is required", fields["name"])
		assert.Equal(t, "Invalid email format", fields["email"])
		assert.Equal(t, "This field is required", fields["amount_cents"])
		assert.Equal(t, "Must be one of: weekly monthly", fields["cadence"])
	})

	t.Run("passes valid input", func(t *testing.T) {
		err := v.Struct(validationFixture{
			Name:        "Dana",
			AmountCents: 8500,
			Cadence:     "weekly",
		})
		assert.NoError(t, err)
	})

	t.Run("falls back to a plain bad request for non-validator errors", func(t *testing.T) {
		resp := FormatValidationErrors(errors.New("unexpected EOF"), "req-2")
		require.NotNil(t, resp.Error)
		assert.Empty(t, resp.Error.Details)
		assert.Equal(t, "unexpected EOF", resp.Error.Message)
	})
}
