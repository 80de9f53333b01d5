package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to reset global state between tests
func resetLimiters(t *testing.T, generalBurst, loginBurst int) {
	t.Helper()
	oldGeneral, oldLogin := visitors, loginVisitors
	visitors = newVisitorPool(time.Hour, generalBurst)
	loginVisitors = newVisitorPool(time.Hour, loginBurst)
	t.Cleanup(func() {
		visitors, loginVisitors = oldGeneral, oldLogin
	})
}

// makeTestRouter creates a Gin engine with a single middleware and a test route.
func makeTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	r.POST("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "login ok"})
	})
	return r
}

func TestRateLimitMiddleware_AllowsInitialBurst(t *testing.T) {
	resetLimiters(t, 5, 3)
	router := makeTestRouter(RateLimitMiddleware())

	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200 on request %d, got %d", i+1, w.Code)
		}
	}

	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 on 6th request, got %d", w.Code)
	}
}

func TestLoginRateLimitMiddleware_StricterLimit(t *testing.T) {
	resetLimiters(t, 100, 3)
	r := makeTestRouter(LoginRateLimitMiddleware())

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodPost, "/login", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200 on login attempt %d, got %d", i+1, w.Code)
		}
	}

	req, _ := http.NewRequest(http.MethodPost, "/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 on 4th login attempt, got %d", w.Code)
	}
}

func TestRateLimit_PerIP(t *testing.T) {
	resetLimiters(t, 1, 1)
	router := makeTestRouter(RateLimitMiddleware())

	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.2:1000"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, addr)
	}
	assert.Equal(t, 2, visitors.size())
}

func TestPruneVisitors(t *testing.T) {
	resetLimiters(t, 10, 10)
	visitors.get("1.1.1.1")
	loginVisitors.get("2.2.2.2")

	visitors.mu.Lock()
	visitors.visitors["1.1.1.1"].lastSeen = time.Now().Add(-time.Hour)
	visitors.mu.Unlock()

	assert.Equal(t, 1, PruneVisitors(10*time.Minute))
	assert.Equal(t, 0, visitors.size())
	assert.Equal(t, 1, loginVisitors.size())
}

func TestStartLimiterJanitor(t *testing.T) {
	c, err := StartLimiterJanitor("@every 1m", time.Minute)
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)
	c.Stop()

	_, err = StartLimiterJanitor("not a spec", time.Minute)
	assert.Error(t, err)
}
