package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	tok, exp, err := m.GenerateToken(UserClaims{ID: "u1", Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserClaims.ID)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Same(t, m, DefaultJWT())
}

func TestJWTRejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	other := &JWTManager{Secret: []byte("different"), TTL: time.Hour}
	tok, _, err := other.GenerateToken(UserClaims{ID: "u1"})
	require.NoError(t, err)
	_, err = m.ParseToken(tok)
	assert.Error(t, err, "wrong secret")

	expired := &JWTManager{Secret: m.Secret, TTL: -time.Minute}
	tok, _, err = expired.GenerateToken(UserClaims{ID: "u1"})
	require.NoError(t, err)
	_, err = m.ParseToken(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	tok, _, err = m.GenerateToken(UserClaims{})
	require.NoError(t, err)
	_, err = m.ParseToken(tok)
	assert.Error(t, err, "empty subject")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ParseToken(none)
	assert.Error(t, err, "alg none")
}

func TestCookieManager(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	NewCookie("example.com", true).SetToken(c, "abc", time.Now().Add(time.Hour))
	set := w.Header().Get("Set-Cookie")
	for _, want := range []string{"token=abc", "Domain=example.com", "HttpOnly", "Secure", "SameSite=None", "Path=/"} {
		assert.Contains(t, set, want)
	}
	assert.Zero(t, maxAgeFrom(time.Now().Add(-time.Hour)))
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage("a.JPG", 1024))
	assert.NoError(t, ValidateImage("b.webp", MaxImageSize))
	assert.Error(t, ValidateImage("c.svg", 10))
	assert.Error(t, ValidateImage("noext", 10))
	err := ValidateImage("d.png", MaxImageSize+1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10 MB")

	assert.Equal(t, "image/jpeg", ImageContentType("x.jpeg"))
	assert.Equal(t, "application/octet-stream", ImageContentType("x.bin"))
	assert.Equal(t, ".webp", ExtForContentType("image/webp"))
	assert.Equal(t, ".png", ExtForContentType("image/unknown"))
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(32)
	require.NoError(t, err)
	b, err := RandomToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
	assert.False(t, strings.ContainsAny(a, "+/="))
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("Password123")
	require.NoError(t, err)
	assert.NotEqual(t, "Password123", h)
	assert.True(t, PasswordMatches(h, "Password123"))
	assert.False(t, PasswordMatches(h, "password123"))
}

func TestPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.False(t, PasswordMatches("not-a-hash", "anything"))
}
