package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/collabhub/server/internal/model"
	"github.com/collabhub/server/internal/port/outbound"
	apperrors "github.com/collabhub/server/internal/utils/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mocks ---

type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateAccessToken(token string) (*outbound.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.TokenClaims), args.Error(1)
}

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateLimiter) GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Int(0), args.Error(1)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRequestID(t *testing.T) {
	t.Run("generates new request ID when not provided", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, GetRequestID(c))
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		headerID := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, headerID)
		assert.Equal(t, headerID, w.Body.String())
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, GetRequestID(c))
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "existing-request-id-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "existing-request-id-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "existing-request-id-123", w.Body.String())
	})

	t.Run("replaces unprintable or oversized request ID", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, GetRequestID(c))
		})

		for _, id := range []string{"has space", strings.Repeat("a", maxRequestIDLength+1)} {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set(RequestIDHeader, id)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			assert.NotEqual(t, id, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		}
	})
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"success as info", http.StatusOK, zapcore.InfoLevel},
		{"4xx as warn", http.StatusConflict, zapcore.WarnLevel},
		{"5xx as error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)

			router := gin.New()
			router.Use(RequestID(), Logging(zap.New(core)))
			router.GET("/test", func(c *gin.Context) {
				c.String(tt.status, "x")
			})

			req := httptest.NewRequest("GET", "/test?foo=bar", nil)
			req.Header.Set("User-Agent", "TestAgent/1.0")
			router.ServeHTTP(httptest.NewRecorder(), req)

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, "HTTP Request", entry.Message)

			fields := entry.ContextMap()
			assert.Equal(t, int64(tt.status), fields["status"])
			assert.Equal(t, "/test", fields["path"])
			assert.Equal(t, "foo=bar", fields["query"])
			assert.Equal(t, "TestAgent/1.0", fields["user_agent"])
			assert.NotEmpty(t, fields["request_id"])
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Run("recovers from panic", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)

		router := gin.New()
		router.Use(Recovery(zap.New(core)))
		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		w := httptest.NewRecorder()
		require.NotPanics(t, func() {
			router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, w).Error.Code)
		require.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
		assert.Equal(t, "test panic", logs.All()[0].ContextMap()["error"])
	})

	t.Run("nil logger", func(t *testing.T) {
		router := gin.New()
		router.Use(Recovery(nil))
		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		w := httptest.NewRecorder()
		require.NotPanics(t, func() {
			router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAuth(t *testing.T) {
	userID := uuid.New()
	staffID := uuid.New()
	staff := NewStaffList([]string{staffID.String(), "not-a-uuid", ""})

	newRouter := func(v TokenValidator, optional bool) *gin.Engine {
		router := gin.New()
		router.Use(Auth(v, staff, optional))
		router.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"user_id": GetUserID(c).String(),
				"role":    GetRole(c),
				"name":    GetName(c),
				"staff":   IsStaff(c),
			})
		})
		return router
	}

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(&MockTokenValidator{}, false).ServeHTTP(w, httptest.NewRequest("GET", "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, w).Error.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		v := &MockTokenValidator{}
		v.On("ValidateAccessToken", "bad").Return(nil, errors.New("expired"))

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set(AuthorizationHeader, "Bearer bad")
		w := httptest.NewRecorder()
		newRouter(v, false).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", decodeError(t, w).Error.Code)
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		v := &MockTokenValidator{}
		v.On("ValidateAccessToken", "good").Return(&outbound.TokenClaims{UserID: userID, Role: model.RoleBrand, Name: "Acme"}, nil)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set(AuthorizationHeader, "Bearer good")
		w := httptest.NewRecorder()
		newRouter(v, false).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["user_id"])
		assert.Equal(t, "brand", body["role"])
		assert.Equal(t, "Acme", body["name"])
		assert.Equal(t, false, body["staff"])
	})

	t.Run("staff from role and from list", func(t *testing.T) {
		v := &MockTokenValidator{}
		v.On("ValidateAccessToken", "role").Return(&outbound.TokenClaims{UserID: uuid.New(), Role: model.RoleStaff}, nil)
		v.On("ValidateAccessToken", "list").Return(&outbound.TokenClaims{UserID: staffID, Role: model.RoleBrand}, nil)

		for _, tok := range []string{"role", "list"} {
			req := httptest.NewRequest("GET", "/me", nil)
			req.Header.Set(AuthorizationHeader, "Bearer "+tok)
			w := httptest.NewRecorder()
			newRouter(v, false).ServeHTTP(w, req)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, true, body["staff"], tok)
		}
	})

	t.Run("optional passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(&MockTokenValidator{}, true).ServeHTTP(w, httptest.NewRequest("GET", "/me", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireStaff(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(c *gin.Context)
		status int
	}{
		{"anonymous", func(c *gin.Context) {}, http.StatusUnauthorized},
		{"not staff", func(c *gin.Context) { c.Set(UserIDKey, uuid.New()) }, http.StatusForbidden},
		{"staff", func(c *gin.Context) { c.Set(UserIDKey, uuid.New()); c.Set(StaffKey, true) }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(func(c *gin.Context) { tt.setup(c) }, RequireStaff())
			router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	userID := uuid.New()
	cfg := RateLimitByUser(2, time.Minute)

	newRouter := func(l outbound.RateLimiterPort, limited *int) *gin.Engine {
		c := cfg
		c.OnLimited = func(*gin.Context) { *limited++ }
		router := gin.New()
		router.Use(func(c *gin.Context) { c.Set(UserIDKey, userID) }, RateLimit(l, c))
		router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("allowed", func(t *testing.T) {
		l := &MockRateLimiter{}
		l.On("Allow", mock.Anything, "user:"+userID.String(), 2, time.Minute).Return(true, nil)
		l.On("GetRemaining", mock.Anything, "user:"+userID.String(), 2, time.Minute).Return(1, nil)

		limited := 0
		w := httptest.NewRecorder()
		newRouter(l, &limited).ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get(RateLimitLimit))
		assert.Equal(t, "1", w.Header().Get(RateLimitRemaining))
		assert.Zero(t, limited)
	})

	t.Run("rejected", func(t *testing.T) {
		l := &MockRateLimiter{}
		l.On("Allow", mock.Anything, mock.Anything, 2, time.Minute).Return(false, nil)
		l.On("GetRemaining", mock.Anything, mock.Anything, 2, time.Minute).Return(0, nil)

		limited := 0
		w := httptest.NewRecorder()
		newRouter(l, &limited).ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get(RetryAfter))
		assert.Equal(t, "RATE_LIMITED", decodeError(t, w).Error.Code)
		assert.Equal(t, 1, limited)
	})

	t.Run("backend failure lets request through", func(t *testing.T) {
		l := &MockRateLimiter{}
		l.On("Allow", mock.Anything, mock.Anything, 2, time.Minute).Return(false, errors.New("redis down"))

		limited := 0
		w := httptest.NewRecorder()
		newRouter(l, &limited).ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("anonymous keyed by ip", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/x", nil)
		c.Request.RemoteAddr = "10.0.0.1:1234"
		assert.Equal(t, "ip:10.0.0.1", cfg.KeyFunc(c))
	})
}

func TestIdempotency_PassThroughWithoutRedis(t *testing.T) {
	calls := 0
	router := gin.New()
	router.Use(Idempotency(nil, IdempotencyConfig{}))
	router.POST("/x", func(c *gin.Context) {
		calls++
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/x", bytes.NewBufferString("{}"))
		req.Header.Set(IdempotencyKeyHeader, "k1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}
	assert.Equal(t, 2, calls)
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowHeaders, "Authorization")
	assert.Contains(t, cfg.AllowHeaders, IdempotencyKeyHeader)
	assert.Contains(t, cfg.ExposeHeaders, RetryAfter)
	assert.False(t, cfg.AllowCredentials)

	custom := DefaultCORSConfig("https://app.example.com")
	assert.Equal(t, []string{"https://app.example.com"}, custom.AllowOrigins)
	assert.True(t, custom.AllowCredentials)

	router := gin.New()
	router.Use(CORS(custom))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	router := gin.New()
	router.Use(Tracing())
	router.GET("/api/v1/collaborations/:id", func(c *gin.Context) {
		c.Status(http.StatusServiceUnavailable)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/collaborations/abc", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/collaborations/:id", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
