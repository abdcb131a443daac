package errors

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("Post").Status)
	assert.Equal(t, http.StatusBadRequest, BadRequest("Bad", "").Status)
	assert.Equal(t, http.StatusBadRequest, ValidationError("message", "too long").Status)
	assert.Equal(t, http.StatusInternalServerError, InternalError("boom").Status)
	assert.Equal(t, http.StatusInternalServerError, ErrorCode("UNKNOWN").StatusCode())
}

func TestAPIErrorBody(t *testing.T) {
	body, err := json.Marshal(ValidationError("username", "Username cannot be empty."))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "VALIDATION_ERROR", decoded["code"])
	assert.Equal(t, "Invalid input", decoded["title"])
	assert.Equal(t, "Username cannot be empty.", decoded["description"])
	assert.Equal(t, "username", decoded["field"])
	assert.NotContains(t, decoded, "Status")
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: Post not found", NotFound("Post").Error())
	assert.Equal(t, "VALIDATION_ERROR: Invalid input (field: message)", ValidationError("message", "x").Error())
}
