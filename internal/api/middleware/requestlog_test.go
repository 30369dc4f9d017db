package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestRequestLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		status        int
		providedReqID string
		wantLogFields []string
	}{
		{
			name:   "logs GET request with generated ID",
			method: http.MethodGet,
			path:   "/api/v1/manifests",
			status: http.StatusOK,
			wantLogFields: []string{
				"method=GET",
				"path=/api/v1/manifests",
				"status=200",
				"duration_ms=",
				"request_id=",
			},
		},
		{
			name:   "logs POST request",
			method: http.MethodPost,
			path:   "/api/v1/manifests",
			status: http.StatusCreated,
			wantLogFields: []string{
				"method=POST",
				"status=201",
			},
		},
		{
			name:          "uses provided request ID",
			method:        http.MethodGet,
			path:          "/test",
			status:        http.StatusOK,
			providedReqID: "custom-req-id-123",
			wantLogFields: []string{
				"request_id=custom-req-id-123",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.providedReqID != "" {
				req.Header.Set(requestIDHeader, tt.providedReqID)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := RequestLog(logger)(func(c echo.Context) error {
				return c.NoContent(tt.status)
			})

			err := handler(c)
			require.NoError(t, err)

			logOutput := buf.String()
			for _, field := range tt.wantLogFields {
				assert.Contains(t, logOutput, field)
			}

			// Response should have the request ID header.
			respID := rec.Header().Get(requestIDHeader)
			assert.NotEmpty(t, respID)

			if tt.providedReqID != "" {
				assert.Equal(t, tt.providedReqID, respID)
			}

			assert.Equal(t, respID, RequestID(c))
		})
	}
}

func TestRequestLog_ProbeSuppression(t *testing.T) {
	t.Parallel()

	type call struct {
		status     int
		wantLogged bool
	}

	tests := []struct {
		name  string
		path  string
		calls []call
	}{
		{
			name: "healthz successes logged once",
			path: "/healthz",
			calls: []call{
				{http.StatusOK, true},
				{http.StatusOK, false},
				{http.StatusOK, false},
			},
		},
		{
			name: "readyz failures always logged",
			path: "/readyz",
			calls: []call{
				{http.StatusServiceUnavailable, true},
				{http.StatusServiceUnavailable, true},
			},
		},
		{
			name: "readyz failure after suppressed success",
			path: "/readyz",
			calls: []call{
				{http.StatusOK, true},
				{http.StatusOK, false},
				{http.StatusServiceUnavailable, true},
			},
		},
		{
			name: "api paths always logged",
			path: "/api/v1/manifests",
			calls: []call{
				{http.StatusOK, true},
				{http.StatusOK, true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			mw := RequestLog(slog.New(slog.NewTextHandler(&buf, nil)))
			e := echo.New()

			for i, step := range tt.calls {
				handler := mw(func(c echo.Context) error {
					return c.NoContent(step.status)
				})

				before := buf.Len()
				req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
				require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))

				if step.wantLogged {
					assert.Greater(t, buf.Len(), before, "call %d should be logged", i+1)
				} else {
					assert.Equal(t, before, buf.Len(), "call %d should be suppressed", i+1)
				}
			}
		})
	}
}

func TestRequestLog_LevelByStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status    int
		wantLevel string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusUnprocessableEntity, "level=WARN"},
		{http.StatusServiceUnavailable, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/manifests", http.NoBody)
			c := e.NewContext(req, httptest.NewRecorder())

			handler := RequestLog(logger)(func(c echo.Context) error {
				return c.NoContent(tt.status)
			})
			require.NoError(t, handler(c))
			assert.Contains(t, buf.String(), tt.wantLevel)
		})
	}
}

func TestRequestLog_ReturnedHTTPError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/manifests/x", http.NoBody), httptest.NewRecorder())

	handler := RequestLog(logger)(func(_ echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "manifest not found")
	})
	require.Error(t, handler(c))

	assert.Contains(t, buf.String(), "status=404")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "manifest not found")
}

func TestRequestLog_TraceID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/manifests", http.NoBody)
	req = req.WithContext(trace.ContextWithSpanContext(req.Context(), sc))
	c := e.NewContext(req, httptest.NewRecorder())

	handler := RequestLog(logger)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Contains(t, buf.String(), "trace_id=4bf92f3577b34da6a3ce929d0e0e4736")
}
