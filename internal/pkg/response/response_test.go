package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, write func(c *gin.Context)) (*httptest.ResponseRecorder, Body) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	write(c)

	var body Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccessEnvelope(t *testing.T) {
	w, body := record(t, func(c *gin.Context) {
		Success(c, http.StatusCreated, gin.H{"id": 1})
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
	assert.NotNil(t, body.Data)
}

func TestErrorEnvelope(t *testing.T) {
	w, body := record(t, func(c *gin.Context) {
		Error(c, http.StatusNotFound, "NOT_FOUND", "no such product")
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "no such product", body.Error.Message)
	assert.Nil(t, body.Data)
}

func TestConflictShorthand(t *testing.T) {
	w, body := record(t, func(c *gin.Context) {
		Conflict(c, "ALREADY_REVIEWED", "report already reviewed")
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ALREADY_REVIEWED", body.Error.Code)
}
