package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPStoreIssueAndVerify(t *testing.T) {
	store := NewOTPStore(time.Minute)

	code, err := store.Issue("+911234567890")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	assert.False(t, store.Verify("+911234567890", "000000"))
	assert.True(t, store.Verify("+911234567890", code))
	// Codes are single-use.
	assert.False(t, store.Verify("+911234567890", code))
}

func TestOTPStoreExpiry(t *testing.T) {
	store := NewOTPStore(50 * time.Millisecond)

	code, err := store.Issue("+911111111111")
	require.NoError(t, err)

	time.Sleep(120 * time.Millisecond)
	assert.False(t, store.Verify("+911111111111", code))
}

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	token, err := IssueToken("secret", userID, "warden", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "warden", claims.Role)

	_, err = ParseToken("wrong-secret", token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "other"))
}
