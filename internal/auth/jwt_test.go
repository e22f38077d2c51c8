package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccessSecret = "access-secret-for-tests-0123456789abcdef"

func signAccessToken(t *testing.T, secret, userID string, ttl time.Duration) string {
	t.Helper()
	now := time.Now().UTC()
	claims := &Claims{
		UserID: userID,
		Email:  "c@example.com",
		Role:   "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "user-service",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTManager_Validate(t *testing.T) {
	claims, err := NewJWTManager(testAccessSecret).
		ValidateAccessToken(signAccessToken(t, testAccessSecret, "cust_1", 15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "cust_1", claims.UserID)
	assert.Equal(t, "c@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
}

func TestJWTManager_Expired(t *testing.T) {
	_, err := NewJWTManager(testAccessSecret).
		ValidateAccessToken(signAccessToken(t, testAccessSecret, "cust_1", -time.Minute))
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTManager_RequiresExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "cust_1"}).
		SignedString([]byte(testAccessSecret))
	require.NoError(t, err)

	_, err = NewJWTManager(testAccessSecret).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token := signAccessToken(t, "other-secret-other-secret-other-secret", "cust_1", time.Minute)

	_, err := NewJWTManager(testAccessSecret).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{"user_id": "cust_1", "exp": time.Now().Add(time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testAccessSecret))
	require.NoError(t, err)

	_, err = NewJWTManager(testAccessSecret).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_SubjectFallback(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "cust_7",
		"exp": time.Now().Add(time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAccessSecret))
	require.NoError(t, err)

	got, err := NewJWTManager(testAccessSecret).ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cust_7", got.UserID)
}

func TestJWTManager_ShareTokenIsNotAnAccessToken(t *testing.T) {
	share, err := NewShareTokenCodec(testAccessSecret).Issue("cust_1")
	require.NoError(t, err)

	_, err = NewJWTManager(testAccessSecret).ValidateAccessToken(share)
	assert.Error(t, err, "share tokens carry no expiry and must not authenticate")
}
