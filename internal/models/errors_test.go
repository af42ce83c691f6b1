package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := fmt.Errorf("load users: %w", NewStoreUnavailableError(cause))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeStoreUnavailable, CodeOf(err))
	assert.Equal(t, "Store unavailable: disk I/O error", errors.Unwrap(err).Error())
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"index out of range", NewIndexOutOfRangeError("User", 3, 1), CodeNotFound},
		{"bad input", NewValidationError("id must be an integer"), CodeBadUserInput},
		{"write", NewStoreWriteError("Posts", errors.New("FOREIGN KEY constraint failed")), CodeStoreWriteError},
		{"conformance", NewSchemaConformanceError("User", "username"), CodeSchemaConformance},
		{"plain error", errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestAppError_Extensions(t *testing.T) {
	err := NewSchemaConformanceError("Post", "title")
	assert.Equal(t, map[string]interface{}{"code": CodeSchemaConformance}, err.Extensions())
	assert.Equal(t, "Post.title is non-null but the store returned no value", err.Error())
}

func TestRespondWithError(t *testing.T) {
	app := fiber.New()
	app.Get("/app", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusBadRequest, NewValidationError("query is required"))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, errors.New("boom"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/app", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "query is required", body.Errors[0].Message)
	assert.Equal(t, CodeBadUserInput, body.Errors[0].Extensions["code"])

	resp, err = app.Test(httptest.NewRequest("GET", "/plain", nil), -1)
	require.NoError(t, err)
	raw, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"errors":[{"message":"boom"}]}`, string(raw))
}
