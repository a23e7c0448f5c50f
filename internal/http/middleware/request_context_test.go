package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerodesign/zerodesign-backend/internal/platform/ctxutil"
)

func TestAttachRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		wantIP  string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1", "X-Real-IP": "198.51.100.1"}, "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.1"}, "198.51.100.1"},
		{"remote addr", nil, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *ctxutil.RequestData
			var trace *ctxutil.TraceData
			r := gin.New()
			r.Use(AttachRequestContext())
			r.GET("/x", func(c *gin.Context) {
				got = ctxutil.GetRequestData(c.Request.Context())
				trace = ctxutil.GetTraceData(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.RemoteAddr = "192.0.2.1:5555"
			req.Header.Set(headerRequestID, "req-1")
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.NotNil(t, got)
			assert.Equal(t, tt.wantIP, got.ClientIP)
			require.NotNil(t, trace)
			assert.Equal(t, "req-1", trace.RequestID)
			assert.NotEmpty(t, trace.TraceID)
			assert.Equal(t, "req-1", rec.Header().Get(headerRequestID))
		})
	}
}
