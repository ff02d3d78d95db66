package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/javajoker/campaign-wizard/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func identityEcho(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id": c.GetString("user_id"),
		"org_id":  c.GetString("org_id"),
		"lang":    c.GetString("lang"),
	})
}

func TestAuthRequired(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	router := gin.New()
	router.Use(I18nMiddleware())
	router.GET("/me", AuthRequired(), identityEcho)

	token, err := utils.GenerateJWT("user_1", "org_1", "u@example.com", 1)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":"user_1","org_id":"org_1","lang":"en"}`, w.Body.String())
			}
		})
	}
}

func TestResolveLanguage(t *testing.T) {
	assert.Equal(t, "en", resolveLanguage(""))
	assert.Equal(t, "zh_TW", resolveLanguage("zh-TW,zh;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", resolveLanguage("fr-FR"))
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	limiter := NewRateLimiter(rate.Every(time.Hour), 2)
	defer limiter.Close()

	router := gin.New()
	router.GET("/", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestExtractResource(t *testing.T) {
	id := "8f14e45f-ceea-467f-a0e6-1fb2f1b7e0a1"
	assert.Equal(t, "campaigns", extractResourceType("/v1/campaigns/"+id+"/wizard/2"))
	assert.Equal(t, id, extractResourceID("/v1/campaigns/"+id+"/wizard/2"))
	assert.Empty(t, extractResourceID("/v1/campaigns"))
}
