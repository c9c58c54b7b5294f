package auth

import (
	"testing"

	"worksite-task-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("u-1", "alice@example.com", models.RoleSupervisor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, models.RoleSupervisor, claims.Role)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, err := ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestGenerateToken_RoleRoundTripsForAllRoles(t *testing.T) {
	for _, role := range []models.Role{models.RoleAdmin, models.RoleSupervisor, models.RoleWorker} {
		token, err := GenerateToken("u-1", "u@example.com", role)
		require.NoError(t, err)
		claims, err := ValidateToken(token)
		require.NoError(t, err)
		require.Equal(t, role, claims.Role)
	}
}
