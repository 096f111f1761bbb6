package jwt

import (
	"encoding/base64"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "5d0c0e47-3a5e-4c59-8a59-1f3c8f2b7a11"

func TestGenerateAndValidate(t *testing.T) {
	svc := New("secret", time.Hour)

	token, err := svc.GenerateToken(userID, "GramPanchayat")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "GramPanchayat", claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := New("secret", time.Hour).GenerateToken(userID, "Admin")
	require.NoError(t, err)

	_, err = New("other", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := New("secret", -time.Minute).GenerateToken(userID, "Admin")
	require.NoError(t, err)

	_, err = New("secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseUnverifiedClaims(t *testing.T) {
	now := time.Now()

	foreign := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwtlib.NewNumericDate(now.Add(time.Hour)),
	})
	signed, err := foreign.SignedString([]byte("someone-elses-key"))
	require.NoError(t, err)

	claims, err := ParseUnverifiedClaims(signed, now)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestParseUnverifiedClaims_Rejects(t *testing.T) {
	now := time.Now()

	expired, _ := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwtlib.NewNumericDate(now.Add(-time.Minute)),
	}).SignedString([]byte("k"))

	noExp, _ := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		Subject: userID,
	}).SignedString([]byte("k"))

	noSubject, _ := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		ExpiresAt: jwtlib.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("k"))

	garbagePayload := "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte("{not json")) + ".sig"

	_, err := ParseUnverifiedClaims(expired, now)
	assert.ErrorIs(t, err, ErrTokenExpired)

	for name, tok := range map[string]string{
		"no exp":          noExp,
		"no subject":      noSubject,
		"two segments":    "abc.def",
		"garbage payload": garbagePayload,
		"empty":           "",
	} {
		_, err := ParseUnverifiedClaims(tok, now)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}
