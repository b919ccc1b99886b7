package middleware

import (
	"Go_Stow/internal/repo/repotest"
	"Go_Stow/model"
	"Go_Stow/utils"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["detail"]
}

func TestAuth(t *testing.T) {
	db := repotest.UseTestDB(t)
	issuer, err := utils.NewTokenIssuer("test", []byte("secret"), time.Minute, time.Hour, nil)
	require.NoError(t, err)
	prev := utils.Tokens
	utils.Tokens = issuer
	t.Cleanup(func() { utils.Tokens = prev })

	user := &model.User{Email: "a@x.com", Password: "x", UserName: "a", CellPhone: "01011111111", Gender: model.GenderMale}
	require.NoError(t, db.Create(user).Error)
	access, err := issuer.IssueAccess(user.UserNo)
	require.NoError(t, err)
	refresh, err := issuer.IssueRefresh(user.UserNo)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", Auth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_no": Principal(c), "email": CurrentUser(c).Email})
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"access token", "Bearer " + access, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusUnauthorized {
				assert.Equal(t, "Could not validate credentials", detailOf(t, w))
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRequireSelf(t *testing.T) {
	r := gin.New()
	r.GET("/users/:user_no", func(c *gin.Context) {
		c.Set(ContextUserNo, uint64(7))
	}, RequireSelf("user_no"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	cases := map[string]int{
		"/users/7":   http.StatusNoContent,
		"/users/8":   http.StatusForbidden,
		"/users/abc": http.StatusBadRequest,
	}
	for path, status := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, w.Code, path)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPLimiter(0.001, 2)
	r := gin.New()
	r.POST("/login", RateLimit(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)
	w := do("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2").Code)
}

func TestIPLimiterSweepsIdleVisitors(t *testing.T) {
	now := time.Now()
	limiter := NewIPLimiter(1, 1)
	limiter.now = func() time.Time { return now }
	limiter.Allow("a")
	limiter.Allow("b")
	require.Len(t, limiter.visitors, 2)

	now = now.Add(limiterIdleTTL + limiterSweepEvery + time.Second)
	limiter.Allow("c")
	assert.Len(t, limiter.visitors, 1)
}

func TestIPLimiterDisabled(t *testing.T) {
	limiter := NewIPLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.True(t, limiter.Allow("a"))
	}
}
