package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blogsphere/pkg/apperror"
)

func run(t *testing.T, h gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "rid-1")
	h(c)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestSuccessEnvelope(t *testing.T) {
	code, body := run(t, func(c *gin.Context) {
		Success(c, http.StatusCreated, gin.H{"id": "1"}, "created", gin.H{"count": 1})
	})
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "rid-1", body["requestId"])
	assert.Equal(t, map[string]any{"id": "1"}, body["data"])
	assert.Equal(t, map[string]any{"count": float64(1)}, body["meta"])
}

func TestFailMapsKinds(t *testing.T) {
	t.Cleanup(func() { Configure(Options{}) })

	code, body := run(t, func(c *gin.Context) {
		Fail(c, apperror.Validation("invalid payload", map[string]string{"email": "must be a valid email"}))
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, map[string]any{"email": "must be a valid email"}, body["error"])

	code, body = run(t, func(c *gin.Context) { Fail(c, errors.New("pg: connection refused")) })
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "something went wrong", body["message"])
	assert.NotContains(t, body, "error")

	Configure(Options{ExposeErrors: true})
	_, body = run(t, func(c *gin.Context) { Fail(c, apperror.Internal("failed to load user", errors.New("pg down"))) })
	assert.Equal(t, "pg down", body["error"])
}

func TestSuccessKeepsEmptyData(t *testing.T) {
	_, body := run(t, func(c *gin.Context) {
		Success(c, http.StatusOK, []string{}, "nothing yet", gin.H{"count": 0})
	})
	require.Contains(t, body, "data")
	assert.Equal(t, []any{}, body["data"])

	_, body = run(t, func(c *gin.Context) { Success[any](c, http.StatusOK, nil, "logged out", nil) })
	require.Contains(t, body, "data")
	assert.Nil(t, body["data"])
}

func TestFailLogsOnlyInternalErrors(t *testing.T) {
	logger, hook := test.NewNullLogger()
	Configure(Options{Logger: logger})
	t.Cleanup(func() { Configure(Options{}) })

	run(t, func(c *gin.Context) { Fail(c, apperror.NotFound("blog post not found")) })
	assert.Empty(t, hook.AllEntries())

	run(t, func(c *gin.Context) { Fail(c, errors.New("pg: connection refused")) })
	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "rid-1", entry.Data["request_id"])
}
