package errors

import (
	"errors"
	"fmt"
	"testing"

	"ddd-shop/domain/customer"
	"ddd-shop/domain/shared"

	"github.com/stretchr/testify/assert"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
		wantExit int
	}{
		{"validation", shared.NewValidationError("customer", "name", customer.ErrInvalidName), CodeValidation, ExitValidation},
		{"not found", customer.NewCustomerNotFoundError("c1"), CodeNotFound, ExitNotFound},
		{"conflict", shared.NewConflictError("order", "modified"), CodeConflict, ExitConflict},
		{"dispatch", fmt.Errorf("%w: boom", shared.ErrDispatchFailed), CodeDispatchFailed, ExitDispatch},
		{"unknown", errors.New("disk on fire"), CodeInternal, ExitInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := MapDomainError(tt.err)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantExit, appErr.ExitCode())
			assert.ErrorIs(t, appErr, tt.err)
			assert.Equal(t, tt.wantExit, ExitCodeOf(tt.err))
		})
	}
}

func TestMapDomainErrorKeepsAppError(t *testing.T) {
	original := BadRequest("unknown command")
	assert.Same(t, original, MapDomainError(fmt.Errorf("wrapped: %w", original)))
	assert.True(t, Is(original, CodeBadRequest))
	assert.Equal(t, ExitUsage, ExitCodeOf(original))
}

func TestNilError(t *testing.T) {
	assert.Nil(t, MapDomainError(nil))
	assert.Equal(t, ExitOK, ExitCodeOf(nil))
}
