package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 3)

	token, exp, err := tm.Issue("alice@example.com", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(3*time.Hour), exp, time.Minute)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 3)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-4 * time.Hour)),
		},
	})
	tokenStr, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := tm.Verify(tokenStr)
	require.Error(t, err)
	assert.Nil(t, claims, "no partial claims on failure")
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 3)
	verifier := NewTokenManager("secret-b", 3)

	token, _, err := issuer.Issue("alice@example.com", "")
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestVerifyRejectsWrongSigningMethod(t *testing.T) {
	tm := NewTokenManager("test-secret", 3)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.Verify(tokenStr)
	require.Error(t, err)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 3)

	for _, tokenStr := range []string{"", "garbage", "a.b.c"} {
		claims, err := tm.Verify(tokenStr)
		require.Error(t, err)
		assert.Nil(t, claims)
	}
}

func TestVerifyRejectsMissingEmailClaim(t *testing.T) {
	tm := NewTokenManager("test-secret", 3)

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenStr, err := anonymous.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.Verify(tokenStr)
	require.Error(t, err)
}

func TestDefaultTTLIsThreeHours(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)

	_, exp, err := tm.Issue("alice@example.com", "")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(3*time.Hour), exp, time.Minute)
}
