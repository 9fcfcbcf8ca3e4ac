package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey    = "test-key"
	testIssuer = "school-dashboard"
)

func TestIssueAndParse(t *testing.T) {
	token, exp, err := Issue("t1", RoleTeacher, testIssuer, testKey, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := Parse(token, testKey, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, "t1", claims.Subject)
	assert.Equal(t, RoleTeacher, claims.Role)

	_, err = Parse(token, "other-key", testIssuer)
	assert.Error(t, err)
	_, err = Parse(token, testKey, "someone-else")
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	token, _, err := Issue("s1", RoleStudent, testIssuer, testKey, -time.Minute)
	require.NoError(t, err)
	_, err = Parse(token, testKey, testIssuer)
	assert.Error(t, err)
}

func router(enabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Bearer(enabled, testKey, testIssuer))
	r.POST("/write", RequireRoles(RoleAdmin, RoleTeacher), func(c *gin.Context) {
		claims, _ := FromContext(c)
		c.JSON(http.StatusOK, gin.H{"sub": claims.Subject})
	})
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareRoles(t *testing.T) {
	r := router(true)

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "garbage").Code)

	student, _, err := Issue("s1", RoleStudent, testIssuer, testKey, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(r, student).Code)

	teacher, _, err := Issue("t1", RoleTeacher, testIssuer, testKey, time.Hour)
	require.NoError(t, err)
	w := do(r, teacher)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sub":"t1"}`, w.Body.String())
}

func TestMiddlewareDisabled(t *testing.T) {
	assert.Equal(t, http.StatusOK, do(router(false), "").Code)
}

func TestMiddlewareQueryToken(t *testing.T) {
	r := router(true)
	admin, _, err := Issue("a1", RoleAdmin, testIssuer, testKey, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/write?access_token="+admin, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
