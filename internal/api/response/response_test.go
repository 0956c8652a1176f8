package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamscao/userapi/internal/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func run(err error) (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Error(c, err)
	return w, c
}

func decode(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestError_Unauthorized(t *testing.T) {
	w, c := run(apperrors.ErrInvalidCredential)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.True(t, c.IsAborted())

	body := decode(t, w)
	assert.Equal(t, "invalid_credential", body.Error)
	assert.Equal(t, "Invalid or expired API key", body.Message)
}

func TestError_ValidationDetails(t *testing.T) {
	w, _ := run(apperrors.Validation(map[string]string{"name": "is required"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"error":"validation_error","message":"One or more fields failed validation","details":{"name":"is required"}}`, w.Body.String())
}

func TestError_StoreCauseNotLeaked(t *testing.T) {
	w, c := run(errors.New("sqlite: database disk image is malformed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "malformed")
	assert.Equal(t, "store_error", decode(t, w).Error)
	require.Len(t, c.Errors, 1)
	assert.Contains(t, c.Errors.String(), "malformed")
}

func TestError_NotFoundNotLogged(t *testing.T) {
	w, c := run(apperrors.NotFound("User"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w).Message)
	assert.Empty(t, c.Errors)
}
