package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("create booking: %w", InsufficientInventory(2))

	assert.ErrorIs(t, err, ErrInsufficientInventory)
	assert.NotErrorIs(t, err, ErrNotFound)

	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Available)
	assert.Equal(t, "only 2 seats available", de.Error())
}

func TestError_ValidationMessageListsFields(t *testing.T) {
	err := ValidationFailed([]FieldError{
		{Index: 1, Field: "age", Message: "must be between 1 and 120"},
		{Index: 3, Field: "email", Message: "is invalid"},
	})
	assert.Equal(t,
		"passenger validation failed: passenger 1: age must be between 1 and 120; passenger 3: email is invalid",
		err.Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindForbidden, KindOf(Forbidden("nope")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindAlreadyCancelled, KindOf(errors.Join(AlreadyCancelled("BK1"), errors.New("rollback"))))
}

func TestInternal_Unwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "create booking")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, "create booking: connection reset", err.Error())
}

func TestBooking_AppendNote(t *testing.T) {
	b := &Booking{}
	b.AppendNote(AdminCancellationNote + "weather")
	assert.Equal(t, "Admin Cancellation: weather", b.SpecialRequests)

	b = &Booking{SpecialRequests: "window seat"}
	b.AppendNote(AdminCancellationNote + "duplicate")
	assert.Equal(t, "window seat\nAdmin Cancellation: duplicate", b.SpecialRequests)

	b.AppendNote("   ")
	assert.Equal(t, "window seat\nAdmin Cancellation: duplicate", b.SpecialRequests)
}
