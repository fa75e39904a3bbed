package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "nachlass/pkg/domain"
	dErrors "nachlass/pkg/domainerrors"
)

var tokenService = NewService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
)
var universeID = id.NewUniverseID()
var adminID = id.NewMemberID()
var expiresIn = time.Hour

func Test_IssueSessionToken(t *testing.T) {
	token, err := tokenService.IssueSessionToken(universeID, adminID, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokenService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, universeID.String(), claims.UniverseID)
	assert.Equal(t, adminID.String(), claims.AdminID)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)

	scopeUniverse, scopeAdmin, err := claims.Scope()
	require.NoError(t, err)
	assert.Equal(t, universeID, scopeUniverse)
	assert.Equal(t, adminID, scopeAdmin)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := tokenService.ValidateToken("invalid-token-string")
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := tokenService.IssueSessionToken(universeID, adminID, -time.Hour)
	require.NoError(t, err)

	_, err = tokenService.ValidateToken(token)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewService("other-signing-key", "test-issuer", "test-audience")
	token, err := other.IssueSessionToken(universeID, adminID, expiresIn)
	require.NoError(t, err)

	_, err = tokenService.ValidateToken(token)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
