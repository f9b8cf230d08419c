package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveAuthed(token string, next http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	JWTMiddleware(next).ServeHTTP(rec, req)
	return rec
}

// The signing key must be read per call, not captured at package init:
// JWT_SECRET usually arrives via .env, which godotenv loads long after
// this package initializes.
func TestJWTSecretIsReadPerCall(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")

	userID, companyID := uuid.NewString(), uuid.NewString()
	token, err := GenerateToken(userID, companyID, "admin", "Ana Torres", "ana@example.com")
	require.NoError(t, err)

	var gotCompany uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCompany = GetCompanyID(r)
		w.WriteHeader(http.StatusOK)
	})

	rec := serveAuthed(token, next)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, companyID, gotCompany.String())

	// Rotating the secret invalidates outstanding tokens on the next request
	t.Setenv("JWT_SECRET", "second-secret")
	rec = serveAuthed(token, next)
	assert.Equal(t, 401, rec.Code)
}
