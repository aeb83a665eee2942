package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, fn func(c *gin.Context)) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestForbiddenResponse(t *testing.T) {
	code, body := render(t, ForbiddenResponse)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, Response{Code: http.StatusForbidden, Message: "Forbidden"}, body)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"forbidden", Forbidden("admins only"), http.StatusForbidden, "admins only"},
		{"wrapped conflict", errors.Join(ErrEmailInUse), http.StatusConflict, "email already in use by another account"},
		{"persistence hides cause", Persistence(errors.New("dial tcp: refused"), "failed to load"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := render(t, func(c *gin.Context) { RespondError(c, tt.err) })
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}
