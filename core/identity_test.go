package core

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestParseIdentity(t *testing.T) {
	t.Parallel()

	valid := Claims{
		UserId: "user-1",
		Name:   "Asha",
		Role:   "employee",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		identity, err := ParseIdentity(signToken(t, testSecret, valid), testSecret)

		require.NoError(t, err)
		assert.Equal(t, Identity{Id: "user-1", Name: "Asha", Role: RoleEmployee}, identity)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		_, err := ParseIdentity(signToken(t, "other-secret", valid), testSecret)

		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		expired := valid
		expired.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

		_, err := ParseIdentity(signToken(t, testSecret, expired), testSecret)

		require.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		t.Parallel()

		unknown := valid
		unknown.Role = "superuser"

		_, err := ParseIdentity(signToken(t, testSecret, unknown), testSecret)

		require.ErrorIs(t, err, ErrMissingIdentity)
	})

	t.Run("missing user id", func(t *testing.T) {
		t.Parallel()

		anonymous := valid
		anonymous.UserId = ""

		_, err := ParseIdentity(signToken(t, testSecret, anonymous), testSecret)

		require.ErrorIs(t, err, ErrMissingIdentity)
	})
}

func TestIdentityMiddleware(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	valid := Claims{
		UserId: "user-2",
		Name:   "Lin",
		Role:   "approver",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	tests := []struct {
		name           string
		authorization  string
		expectedStatus int
		wantIdentity   bool
	}{
		{
			name:           "valid token passes identity through",
			authorization:  "Bearer " + signToken(t, testSecret, valid),
			expectedStatus: http.StatusOK,
			wantIdentity:   true,
		},
		{
			name:           "missing header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			authorization:  "Token abc",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			authorization:  "Bearer not-a-jwt",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := gin.New()
			router.Use(IdentityMiddleware(testSecret))
			router.GET("/ping", func(c *gin.Context) {
				identity, ok := CurrentIdentity(c)
				require.True(t, ok)
				assert.Equal(t, RoleApprover, identity.Role)
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCurrentIdentity_Missing(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentIdentity(c)

	assert.False(t, ok)
}
