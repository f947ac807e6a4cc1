package utils

import (
	"testing"
	"time"

	"civic-jharkhand-be/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	tm, err := NewTokenManager("secret", time.Hour)
	require.NoError(t, err)

	token, err := tm.Issue("64b7f0c2a1b2c3d4e5f60718", models.RoleWorker)
	require.NoError(t, err)

	id, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", id.UserID)
	assert.Equal(t, models.RoleWorker, id.Role)
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.Error(t, err)
}

func TestVerifyExpiredToken(t *testing.T) {
	tm, err := NewTokenManager("secret", -time.Minute)
	require.NoError(t, err)

	token, err := tm.Issue("user-1", models.RoleCitizen)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	tm, err := NewTokenManager("secret", time.Hour)
	require.NoError(t, err)

	_, err = tm.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer, _ := NewTokenManager("secret-a", time.Hour)
	verifier, _ := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue("user-1", models.RoleAdmin)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiredTokenWithBadSignatureIsInvalid(t *testing.T) {
	issuer, _ := NewTokenManager("secret-a", -time.Minute)
	verifier, _ := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue("user-1", models.RoleAdmin)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	tm, _ := NewTokenManager("secret", time.Hour)

	claims := Claims{UserID: "user-1", Role: models.RoleAdmin}
	claims.ExpiresAt = time.Now().Add(time.Hour).Unix()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
