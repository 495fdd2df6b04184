package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationHelpers(t *testing.T) {
	assert.NoError(t, ValidateName("Basic"))
	assert.ErrorIs(t, ValidateName("  "), ErrValidation)

	assert.NoError(t, ValidateEmail("john@example.com"))
	assert.NoError(t, ValidateEmail("  jane@example.co.uk "))
	for _, email := range []string{"", "john", "john@example", "jo hn@example.com", "@example.com"} {
		assert.ErrorIs(t, ValidateEmail(email), ErrValidation, "email %q", email)
	}

	assert.NoError(t, ValidatePositive(0.01))
	assert.ErrorIs(t, ValidatePositive(0), ErrValidation)
	assert.ErrorIs(t, ValidatePositive(-5), ErrValidation)
	assert.ErrorIs(t, ValidatePositive(math.NaN()), ErrValidation)
	assert.ErrorIs(t, ValidatePositive(math.Inf(1)), ErrValidation)

	assert.True(t, SameText("A@X.COM", "a@x.com"))
	assert.True(t, SameText(" Basic ", "basic"))
	assert.False(t, SameText("basic", "premium"))
}

func TestOrderStatusValid(t *testing.T) {
	for _, status := range OrderStatuses() {
		assert.True(t, status.Valid(), "status %q", status)
	}
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestAPIErrorMatchesSentinels(t *testing.T) {
	testCases := map[string]struct {
		err      *APIError
		sentinel error
		message  string
	}{
		"validation joins field messages": {
			err: NewValidationError(
				FieldError{Field: "name", Message: "Name is required"},
				FieldError{Field: "price", Message: "Price must be a positive number"},
			),
			sentinel: ErrValidation,
			message:  "Name is required, Price must be a positive number",
		},
		"not found": {
			err:      NewNotFoundError("Order not found"),
			sentinel: ErrNotFound,
			message:  "Order not found",
		},
		"unauthorized": {
			err:      NewUnauthorizedError("denied"),
			sentinel: ErrUnauthorized,
			message:  "denied",
		},
		"server": {
			err:      NewServerError(""),
			sentinel: ErrServer,
			message:  "SERVER_ERROR",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var err error = tc.err
			assert.ErrorIs(t, err, tc.sentinel)
			assert.Equal(t, tc.message, err.Error())

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.err.Type, apiErr.Type)
		})
	}

	assert.NotErrorIs(t, NewNotFoundError("x"), ErrValidation)
	assert.True(t, NewValidationError(FieldError{Field: "email"}).HasField("email"))
	assert.False(t, NewValidationError(FieldError{Field: "email"}).HasField("name"))
}
