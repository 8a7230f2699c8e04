package utils

import (
	"testing"
	"time"

	"slotwise/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestParseActorToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, "user-1", models.RoleProvider, time.Hour)
	require.NoError(t, err)

	actor, err := ParseActorToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, models.Actor{UserID: "user-1", Role: models.RoleProvider}, actor)
}

func TestParseActorToken_RejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, "user-1", models.RoleClient, time.Hour)
	require.NoError(t, err)

	_, err = ParseActorToken([]byte("other"), token)
	assert.Error(t, err)
}

func TestParseActorToken_RejectsExpired(t *testing.T) {
	token, err := GenerateToken(testSecret, "user-1", models.RoleClient, -time.Minute)
	require.NoError(t, err)

	_, err = ParseActorToken(testSecret, token)
	assert.Error(t, err)
}

func TestParseActorToken_RejectsUnknownRole(t *testing.T) {
	token, err := GenerateToken(testSecret, "user-1", "superuser", time.Hour)
	require.NoError(t, err)

	_, err = ParseActorToken(testSecret, token)
	assert.Error(t, err)
}
