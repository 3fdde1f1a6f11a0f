package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"math_quiz_backend/internal/config"
	"math_quiz_backend/internal/model"
	"math_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	return cfg
}

func tokenFor(t *testing.T, id uint, role model.UserRole) string {
	t.Helper()
	u := &model.User{Username: "asha", Role: role}
	u.ID = id
	token, err := util.GenerateJWT(u, secret, time.Hour)
	require.NoError(t, err)
	return token
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	r.GET("/me", handlers...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testConfig()))

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "garbage").Code)

	w := do(r, tokenFor(t, 9, model.Student))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":9}`, w.Body.String())
}

func TestAuthMiddlewareQueryToken(t *testing.T) {
	r := newRouter(AuthMiddleware(testConfig()))
	req := httptest.NewRequest(http.MethodGet, "/me?token="+tokenFor(t, 3, model.Student), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testConfig()), RoleMiddleware(model.Admin))
	assert.Equal(t, http.StatusForbidden, do(r, tokenFor(t, 1, model.Student)).Code)
	assert.Equal(t, http.StatusOK, do(r, tokenFor(t, 0, model.Admin)).Code)
}

type fakeActivity struct {
	mu   sync.Mutex
	seen []uint
	done chan struct{}
}

func (f *fakeActivity) UpdateLastSeen(userID uint) error {
	f.mu.Lock()
	f.seen = append(f.seen, userID)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func TestActivityMiddleware(t *testing.T) {
	repo := &fakeActivity{done: make(chan struct{}, 1)}
	r := newRouter(AuthMiddleware(testConfig()), ActivityMiddleware(repo))

	assert.Equal(t, http.StatusOK, do(r, tokenFor(t, 5, model.Student)).Code)
	select {
	case <-repo.done:
	case <-time.After(time.Second):
		t.Fatal("last seen was not updated")
	}
	repo.mu.Lock()
	assert.Equal(t, []uint{5}, repo.seen)
	repo.mu.Unlock()
}
