package jwttoken_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/jwttoken"
)

func TestNew_RejectsEmptyKey(t *testing.T) {
	_, err := jwttoken.New("")
	assert.ErrorIs(t, err, jwttoken.ErrEmptySigningKey)
}

func TestGenerateAndValidate(t *testing.T) {
	svc, err := jwttoken.New("test-signing-key")
	require.NoError(t, err)

	token, err := svc.Generate("ops@storefront.example", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@storefront.example", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateToken_WrongKey(t *testing.T) {
	svc, err := jwttoken.New("key-one")
	require.NoError(t, err)
	other, err := jwttoken.New("key-two")
	require.NoError(t, err)

	token, err := svc.Generate("ops@storefront.example", "admin", time.Hour)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, jwttoken.ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	svc, err := jwttoken.New("test-signing-key")
	require.NoError(t, err)

	token, err := svc.Generate("ops@storefront.example", "admin", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, jwttoken.ErrInvalidToken)
}

func TestValidateToken_RejectsUnsignedAlg(t *testing.T) {
	svc, err := jwttoken.New("test-signing-key")
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    "storefront-account",
		Subject:   "ops@storefront.example",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.ErrorIs(t, err, jwttoken.ErrInvalidToken)
}
