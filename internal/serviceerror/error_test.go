package serviceerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceError_IsByCode(t *testing.T) {
	err := NotFound("workflow", "wf-1")

	assert.True(t, errors.Is(err, &NotFoundError))
	assert.False(t, errors.Is(err, &ValidationError))
	assert.Equal(t, "resource_not_found: workflow not found: wf-1", err.Error())
}

func TestServiceError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("advance failed: %w", InvalidTransition("workflow is withdrawn"))

	assert.True(t, IsKind(err, InvalidTransitionError))
	se, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, se.HTTPStatus())
}

func TestStore_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Store("failed to load workflow", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, ServerErrorType, err.Type)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("storytellerId is required").HTTPStatus())
	assert.Equal(t, http.StatusForbidden, Forbidden("admin role required").HTTPStatus())
	assert.Equal(t, http.StatusConflict, Conflict("workflow", "wf-1").HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, (&ServiceError{}).HTTPStatus())
}
