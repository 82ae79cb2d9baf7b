package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T, passcode string, ttl time.Duration) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(string(hash), "test-secret", ttl)
}

func TestIssueAndParseToken(t *testing.T) {
	auth := newAuth(t, "1234", time.Hour)
	require.True(t, auth.Enabled())

	result, apiErr := auth.IssueToken("1234", "phone")
	require.Nil(t, apiErr)
	assert.Equal(t, "phone", result.DeviceID)

	deviceID, apiErr := auth.ParseToken(result.Token)
	require.Nil(t, apiErr)
	assert.Equal(t, "phone", deviceID)
}

func TestIssueTokenAssignsDeviceID(t *testing.T) {
	auth := newAuth(t, "1234", time.Hour)
	result, apiErr := auth.IssueToken("1234", "")
	require.Nil(t, apiErr)
	assert.NotEmpty(t, result.DeviceID)
}

func TestIssueTokenRejectsWrongPasscode(t *testing.T) {
	auth := newAuth(t, "1234", time.Hour)

	_, apiErr := auth.IssueToken("4321", "phone")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, apiErr = auth.IssueToken("", "phone")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	auth := newAuth(t, "1234", -time.Minute)
	result, apiErr := auth.IssueToken("1234", "phone")
	require.Nil(t, apiErr)

	_, apiErr = auth.ParseToken(result.Token)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestTokenFromOtherSecretIsRejected(t *testing.T) {
	auth := newAuth(t, "1234", time.Hour)
	other := NewAuthService("x", "other-secret", time.Hour)
	result, apiErr := auth.IssueToken("1234", "phone")
	require.Nil(t, apiErr)

	_, apiErr = other.ParseToken(result.Token)
	assert.NotNil(t, apiErr)
}

func TestDisabledAuth(t *testing.T) {
	auth := NewAuthService("", "secret", time.Hour)
	assert.False(t, auth.Enabled())
	_, apiErr := auth.IssueToken("1234", "")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
