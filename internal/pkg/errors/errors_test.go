package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorString(t *testing.T) {
	err := Validation(CodeValidationFailed, "power_level out of range")
	require.Equal(t, "VALIDATION_FAILED: power_level out of range", err.Error())

	wrapped := Wrap(errors.New("boom"), KindInternal, CodeStorageFailure, "insert glyph")
	require.Equal(t, "STORAGE_FAILURE: insert glyph: boom", wrapped.Error())
}

func TestAppError_KindSentinels(t *testing.T) {
	testCases := []struct {
		kind     Kind
		sentinel error
	}{
		{KindValidation, ErrValidation},
		{KindReference, ErrReference},
		{KindNotFound, ErrNotFound},
		{KindConflict, ErrConflict},
		{KindInternal, ErrInternal},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			err := New(tc.kind, "CODE", "message")
			require.ErrorIs(t, err, tc.sentinel)
		})
	}
}

func TestAppError_IsThroughWrapping(t *testing.T) {
	inner := NotFound(CodeMissionNotFound, "mission not found")
	outer := fmt.Errorf("update mission 42: %w", inner)

	require.ErrorIs(t, outer, ErrNotFound)

	appErr, ok := IsAppError(outer)
	require.True(t, ok)
	require.Equal(t, CodeMissionNotFound, appErr.Code)
}

func TestAppError_WithFieldErrors(t *testing.T) {
	err := Validation(CodeValidationFailed, "invalid glyph").
		WithFieldErrors([]FieldError{
			{Field: "name", Constraint: "max_length=100", Value: "..."},
			{Field: "power_level", Constraint: "range=[0,100]", Value: "150"},
		})

	require.Len(t, err.FieldErrors, 2)
	require.Equal(t, "power_level", err.FieldErrors[1].Field)
	require.Equal(t, "range=[0,100]", err.FieldErrors[1].Constraint)
}

func TestIsAppError_PlainError(t *testing.T) {
	_, ok := IsAppError(errors.New("plain"))
	require.False(t, ok)
}
