package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-itineraries/config"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

var testJWTConfig = config.JWTConfig{
	SecretKey: "middleware-test-secret",
	Issuer:    "trip-itineraries-auth",
	Audience:  "trip-itineraries-api",
}

func validClaims(userID string) *types.Claims {
	return &types.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testJWTConfig.Issuer,
			Audience:  jwt.ClaimStrings{testJWTConfig.Audience},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func signToken(t *testing.T, secret string, claims *types.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// runAuthenticate sends one request through the middleware and reports
// whether the inner handler ran and which user ID it saw.
func runAuthenticate(t *testing.T, authHeader string) (*httptest.ResponseRecorder, string, bool) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var gotUserID string
	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		gotUserID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	Authenticate(logger, testJWTConfig)(next).ServeHTTP(w, req)

	return w, gotUserID, nextCalled
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Error
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid token reaches the handler with the user ID in context", func(t *testing.T) {
		token := signToken(t, testJWTConfig.SecretKey, validClaims("0b7aab74-52f1-4b42-9b3e-0a4fbe4ebd11"))

		w, gotUserID, nextCalled := runAuthenticate(t, "Bearer "+token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, nextCalled)
		assert.Equal(t, "0b7aab74-52f1-4b42-9b3e-0a4fbe4ebd11", gotUserID)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		w, _, nextCalled := runAuthenticate(t, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, nextCalled)
		assert.Equal(t, "Authorization header required", errorMessage(t, w))
	})

	t.Run("non-bearer scheme is rejected", func(t *testing.T) {
		w, _, nextCalled := runAuthenticate(t, "Basic dXNlcjpwYXNz")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, nextCalled)
		assert.Equal(t, "Authorization header format must be Bearer {token}", errorMessage(t, w))
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		token := signToken(t, "some-other-secret", validClaims(""))

		w, _, nextCalled := runAuthenticate(t, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, nextCalled)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		claims := validClaims("")
		claims.IssuedAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Hour))
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		token := signToken(t, testJWTConfig.SecretKey, claims)

		w, _, nextCalled := runAuthenticate(t, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, nextCalled)
		assert.Equal(t, "Token has expired", errorMessage(t, w))
	})

	t.Run("token from another issuer is rejected", func(t *testing.T) {
		claims := validClaims("")
		claims.Issuer = "someone-else"
		token := signToken(t, testJWTConfig.SecretKey, claims)

		w, _, nextCalled := runAuthenticate(t, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, nextCalled)
		assert.Equal(t, "Invalid token issuer", errorMessage(t, w))
	})

	t.Run("token scoped to another audience is rejected", func(t *testing.T) {
		claims := validClaims("")
		claims.Audience = jwt.ClaimStrings{"other-api"}
		token := signToken(t, testJWTConfig.SecretKey, claims)

		w, _, nextCalled := runAuthenticate(t, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, nextCalled)
		assert.Equal(t, "Invalid token audience", errorMessage(t, w))
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims("")).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		w, _, nextCalled := runAuthenticate(t, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, nextCalled)
	})

	t.Run("garbage token is reported as malformed", func(t *testing.T) {
		w, _, nextCalled := runAuthenticate(t, "Bearer not.a.jwt")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, nextCalled)
		assert.Equal(t, "Malformed token", errorMessage(t, w))
	})
}

func TestGetUserIDFromContext(t *testing.T) {
	t.Run("returns the stored user ID", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), UserIDKey, "user-123")

		userID, ok := GetUserIDFromContext(ctx)

		assert.True(t, ok)
		assert.Equal(t, "user-123", userID)
	})

	t.Run("reports absence on a bare context", func(t *testing.T) {
		userID, ok := GetUserIDFromContext(context.Background())

		assert.False(t, ok)
		assert.Empty(t, userID)
	})
}
