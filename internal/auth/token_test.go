package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/leave-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15, "")
	employee := &domain.Employee{ID: "emp-1", Email: "e@x.com", Role: domain.RoleHR}

	token, expiresAt, err := tm.GenerateToken(employee)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims.EmployeeID)
	assert.Equal(t, domain.RoleHR, claims.Role)
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", 5, "").GenerateToken(&domain.Employee{ID: "emp-1"})
	require.NoError(t, err)

	_, err = NewTokenManager("two", 5, "").ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsOtherIssuer(t *testing.T) {
	token, _, err := NewTokenManager("secret", 5, "billing").GenerateToken(&domain.Employee{ID: "emp-1"})
	require.NoError(t, err)

	_, err = NewTokenManager("secret", 5, "leave-service").ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := NewTokenManager("secret", 5, "billing").ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "billing", claims.Issuer)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1, "")
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := tm.GenerateToken(&domain.Employee{ID: "emp-1"})
	require.NoError(t, err)

	_, err = NewTokenManager("secret", 1, "").ParseToken(token)
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	_, err := HashPassword("short", 4)
	assert.ErrorIs(t, err, ErrWeakPassword)

	hashed, err := HashPassword("long-enough", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hashed, "long-enough"))
	assert.Error(t, ComparePassword(hashed, "wrong-password"))
}
