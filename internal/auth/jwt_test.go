package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	userID := uuid.New()
	libraryID := uuid.New()

	token, err := tm.GenerateToken(userID, libraryID, "manager")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, libraryID, claims.LibraryID)
	assert.Equal(t, "manager", claims.Role)
}

func TestTokenManager_UsesConfiguredTTL(t *testing.T) {
	ttl := 2 * time.Hour
	tm := NewTokenManager("test-secret", ttl)

	start := time.Now()

	token, err := tm.GenerateToken(uuid.New(), uuid.New(), "admin")
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)

	expectedExpiry := start.Add(ttl)
	assert.WithinDuration(t, expectedExpiry, claims.ExpiresAt.Time, 2*time.Second)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("different-secret", time.Hour)

	token, err := other.GenerateToken(uuid.New(), uuid.New(), "staff")
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.GenerateToken(uuid.New(), uuid.New(), "admin")
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.Error(t, err)
}
