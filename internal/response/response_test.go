package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h gin.HandlerFunc, reqID string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if reqID != "" {
		req.Header.Set(HeaderRequestID, reqID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSuccess_Envelope(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"status": "ok"})
	}, "req-1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body.Error)
	assert.Equal(t, "req-1", body.Metadata.RequestID)
	assert.NotEmpty(t, body.Metadata.Timestamp)
	assert.Equal(t, map[string]interface{}{"status": "ok"}, body.Data)
}

func TestFailWithFields(t *testing.T) {
	w := serve(func(c *gin.Context) {
		FailWithFields(c, http.StatusUnprocessableEntity, ErrValidation, map[string]string{"name": "Name is required."})
	}, "")

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrValidation, body.Error.Code)
	assert.Equal(t, GetMessage(ErrValidation), body.Error.Message)
	assert.Equal(t, "Name is required.", body.Error.Fields["name"])
	assert.Nil(t, body.Data)
}

func TestRequestID_RejectsOversizedHeader(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Success(c, http.StatusOK, nil)
	}, strings.Repeat("x", 200))

	assert.Len(t, w.Header().Get(HeaderRequestID), 36)
}

func TestGetMessage_Unknown(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred.", GetMessage("NOPE"))
}
