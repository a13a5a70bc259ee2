package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, mw *Middleware, handler echo.MiddlewareFunc, cookie string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := handler(next)(c)
	return rec, c, err
}

func TestRequireAuth_ValidToken(t *testing.T) {
	mw := New(testSecret)
	userID := uuid.NewString()

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":      userID,
		"role":     "user",
		"username": "fatima",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	rec, c, err := doRequest(t, mw, echo.MiddlewareFunc(mw.RequireAuth), token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, userID, c.Get("user_id"))
	assert.Equal(t, "user", c.Get("role"))
	assert.Equal(t, "fatima", c.Get("username"))
}

func TestRequireAuth_Rejections(t *testing.T) {
	mw := New(testSecret)

	tests := []struct {
		name   string
		cookie string
	}{
		{"missing cookie", ""},
		{"garbage token", "not-a-jwt"},
		{"wrong secret", signToken(t, []byte("other-secret"), jwt.MapClaims{
			"sub": uuid.NewString(),
			"exp": time.Now().Add(time.Hour).Unix(),
		})},
		{"expired", signToken(t, testSecret, jwt.MapClaims{
			"sub": uuid.NewString(),
			"exp": time.Now().Add(-time.Hour).Unix(),
		})},
		{"missing subject", signToken(t, testSecret, jwt.MapClaims{
			"role": "user",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := doRequest(t, mw, echo.MiddlewareFunc(mw.RequireAuth), tt.cookie)
			require.Error(t, err)
			he, ok := err.(*echo.HTTPError)
			require.True(t, ok, "expected HTTPError")
			assert.Equal(t, http.StatusUnauthorized, he.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	mw := New(testSecret)

	adminToken := signToken(t, testSecret, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	userToken := signToken(t, testSecret, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	rec, _, err := doRequest(t, mw, mw.RequireRole("admin", "editor"), adminToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, _, err = doRequest(t, mw, mw.RequireRole("admin", "editor"), userToken)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusForbidden, he.Code)
}
