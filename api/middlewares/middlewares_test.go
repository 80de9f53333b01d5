package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ScreenWatch/api/auth"
	"ScreenWatch/api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestCORSMiddleware(t *testing.T) {
	router := makeTestRouter(CORSMiddleware([]string{"http://localhost:3000"}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/test", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTokenAuthAndAdminGate(t *testing.T) {
	t.Setenv("API_SECRET", "middleware-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	admin := models.User{Email: "admin@example.com", Password: "secret123", IsAdmin: true}
	require.NoError(t, db.Create(&admin).Error)
	viewer := models.User{Email: "viewer@example.com", Password: "secret123"}
	require.NoError(t, db.Create(&viewer).Error)

	r := gin.New()
	r.Use(TokenAuthMiddleware(db), AdminOnlyMiddleware())
	r.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, call(""))

	viewerToken, err := auth.CreateToken(viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, call(viewerToken))

	adminToken, err := auth.CreateToken(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call(adminToken))

	ghostToken, err := auth.CreateToken(9999)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(ghostToken))
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	router := makeTestRouter(RequestLogger())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
