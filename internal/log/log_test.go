package log

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelAndService(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", ServiceName: "chat"}, &buf)

	logger.Info().Msg("dropped")
	req.Zero(buf.Len())

	logger.Warn().Msg("kept")
	var entry map[string]any
	req.NoError(json.Unmarshal(buf.Bytes(), &entry))
	req.Equal("kept", entry["message"])
	req.Equal("chat", entry[FieldService])
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, parseLevel(" DEBUG "))
	require.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	require.Equal(t, zerolog.InfoLevel, parseLevel("nonsense"))
}

func TestCtx_FallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{}, &buf)

	ctx := WithLogger(context.Background(), logger)
	l := Ctx(ctx)
	l.Info().Msg("from context")
	require.Contains(t, buf.String(), "from context")

	require.Equal(t, L().GetLevel(), Ctx(context.Background()).GetLevel())
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	req := require.New(t)
	var buf bytes.Buffer
	logger := New(Config{}, &buf)

	r := gin.New()
	r.Use(GinMiddleware(logger))
	r.GET("/rooms", func(c *gin.Context) {
		c.Set(ContextUserIDKey, uint(7))
		l := Ctx(c.Request.Context())
		l.Info().Msg("inside handler")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	httpReq, _ := http.NewRequest(http.MethodGet, "/rooms", nil)
	httpReq.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, httpReq)

	req.Equal(http.StatusNoContent, w.Code)
	req.Equal("req-1", w.Header().Get("X-Request-ID"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	req.Len(lines, 2)

	var inner, done map[string]any
	req.NoError(json.Unmarshal(lines[0], &inner))
	req.Equal("req-1", inner[FieldRequestID])

	req.NoError(json.Unmarshal(lines[1], &done))
	req.Equal("request completed", done["message"])
	req.EqualValues(http.StatusNoContent, done[FieldStatus])
	req.EqualValues(7, done[FieldUserID])
	req.Equal("/rooms", done[FieldPath])
}

func TestGinMiddleware_GeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(zerolog.Nop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	httpReq, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, httpReq)

	require.Len(t, w.Header().Get("X-Request-ID"), 36)
}
