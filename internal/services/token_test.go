package services_test

import (
	"testing"
	"time"

	"authapi/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test_jwt_secret"

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tokens := services.NewTokenManager(testSecret, time.Hour)

	tokenString, err := tokens.Issue("user-123", "alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := tokens.Verify(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, claims.IssuedAt+int64(time.Hour/time.Second), claims.ExpiresAt)
}

func TestTokenManager_ExpiryBoundary(t *testing.T) {
	base := time.Now()
	jwt.TimeFunc = func() time.Time { return base }
	defer func() { jwt.TimeFunc = time.Now }()

	ttl := time.Hour
	tokens := services.NewTokenManager(testSecret, ttl)

	tokenString, err := tokens.Issue("user-123", "alice")
	assert.NoError(t, err)

	// One second before expiry the token verifies.
	jwt.TimeFunc = func() time.Time { return base.Add(ttl - time.Second) }
	_, err = tokens.Verify(tokenString)
	assert.NoError(t, err)

	// One second after expiry it fails with the expiry error, not the
	// generic invalid one.
	jwt.TimeFunc = func() time.Time { return base.Add(ttl + time.Second) }
	_, err = tokens.Verify(tokenString)
	assert.ErrorIs(t, err, services.ErrTokenExpired)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	issuer := services.NewTokenManager("other_secret", time.Hour)
	verifier := services.NewTokenManager(testSecret, time.Hour)

	tokenString, err := issuer.Issue("user-123", "alice")
	assert.NoError(t, err)

	_, err = verifier.Verify(tokenString)
	assert.ErrorIs(t, err, services.ErrTokenInvalid)
}

func TestTokenManager_RejectsMalformedToken(t *testing.T) {
	tokens := services.NewTokenManager(testSecret, time.Hour)

	for _, tokenString := range []string{"", "garbage", "a.b.c"} {
		_, err := tokens.Verify(tokenString)
		assert.ErrorIs(t, err, services.ErrTokenInvalid)
	}
}

func TestTokenManager_RejectsUnsignedAlgorithm(t *testing.T) {
	tokens := services.NewTokenManager(testSecret, time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = tokens.Verify(tokenString)
	assert.ErrorIs(t, err, services.ErrTokenInvalid)
}
