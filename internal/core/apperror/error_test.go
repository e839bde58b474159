package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldRequired_NamesField(t *testing.T) {
	err := NewFieldRequired("party")

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "party", err.Field())
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.True(t, IsValidation(err))
}

func TestSubmissionFailed_KeepsCollaboratorMessage(t *testing.T) {
	cause := errors.New("card_code: This field is required.")
	err := NewSubmissionFailed(cause)

	assert.Equal(t, "card_code: This field is required.", err.Message)
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("submit: %w", err)
	assert.True(t, IsSubmissionFailed(wrapped))
	assert.Equal(t, http.StatusBadGateway, GetHTTPStatus(wrapped))
}

func TestStaleSelection_Detected(t *testing.T) {
	err := NewStaleSelection(3, 5)

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, uint64(3), appErr.Details["issued"])
	assert.True(t, IsStaleSelection(err))
	assert.False(t, IsValidation(err))
}

func TestGetHTTPStatus_UnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
	assert.Equal(t, "", (&AppError{}).Field())
}
