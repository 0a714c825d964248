package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })
	return &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestLogKV(t *testing.T) {
	buf := capture(t)
	LogKV("warn", "transition rejected", map[string]interface{}{"assignment_id": 7})

	entry := decode(t, buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "transition rejected", entry["msg"])
	assert.EqualValues(t, 7, entry["assignment_id"])
	assert.NotEmpty(t, entry["ts"])
}

func TestLogKV_UnknownLevelFallsBackToInfo(t *testing.T) {
	buf := capture(t)
	LogKV("loud", "hello", nil)
	assert.Equal(t, "info", decode(t, buf)["level"])
}

func TestJSONLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := capture(t)

	r := gin.New()
	r.Use(JSONLogger())
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/boom?x=1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	entry := decode(t, buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "/boom", entry["path"])
	assert.Equal(t, "x=1", entry["query"])
	assert.EqualValues(t, 500, entry["status"])
}
