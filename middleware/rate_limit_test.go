package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/globetrek/booking-backend/logger"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	os.Exit(m.Run())
}

func rateLimitedRouter(t *testing.T, limit int, window time.Duration) (*gin.Engine, redismock.ClientMock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client, mock := redismock.NewClientMock()

	r := gin.New()
	r.Use(ErrorHandler())
	r.POST("/register", RegistrationRateLimiter(client, limit, window), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r, mock
}

func doRegister(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegistrationRateLimiter_UnderLimit(t *testing.T) {
	router, mock := rateLimitedRouter(t, 5, time.Minute)

	mock.ExpectTxPipeline()
	mock.ExpectIncr("ratelimit:register:10.0.0.1").SetVal(1)
	mock.ExpectExpire("ratelimit:register:10.0.0.1", time.Minute).SetVal(true)
	mock.ExpectTxPipelineExec()

	w := doRegister(router, "10.0.0.1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRateLimiter_OverLimit(t *testing.T) {
	router, mock := rateLimitedRouter(t, 5, time.Minute)

	mock.ExpectTxPipeline()
	mock.ExpectIncr("ratelimit:register:10.0.0.2").SetVal(6)
	mock.ExpectExpire("ratelimit:register:10.0.0.2", time.Minute).SetVal(true)
	mock.ExpectTxPipelineExec()
	mock.ExpectTTL("ratelimit:register:10.0.0.2").SetVal(30 * time.Second)

	w := doRegister(router, "10.0.0.2")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	router, mock := rateLimitedRouter(t, 5, time.Minute)

	mock.ExpectTxPipeline()
	mock.ExpectIncr("ratelimit:register:10.0.0.3").SetErr(errors.New("connection refused"))

	w := doRegister(router, "10.0.0.3")

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "first X-Forwarded-For entry wins",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"},
			want:    "203.0.113.9",
		},
		{
			name:    "X-Real-IP fallback",
			headers: map[string]string{"X-Real-IP": "198.51.100.4"},
			want:    "198.51.100.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(c))
		})
	}
}
