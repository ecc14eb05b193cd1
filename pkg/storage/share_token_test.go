package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShareTokenIssueAndVerify(t *testing.T) {
	signer := NewShareTokenSigner("secret", time.Hour)
	token, expiresAt, err := signer.Issue("3f8a0c1e-0000-4000-8000-000000000001", "student-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "3f8a0c1e-0000-4000-8000-000000000001", claims.ScheduleID)
	require.Equal(t, "student-42", claims.OwnerID)
	require.WithinDuration(t, expiresAt, claims.ExpiresAt, time.Second)
}

func TestShareTokenExpired(t *testing.T) {
	signer := NewShareTokenSigner("secret", time.Minute)
	issuedAt := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issuedAt }
	token, _, err := signer.Issue("sched-1", "owner")
	require.NoError(t, err)

	signer.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	claims, err := signer.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
	require.Equal(t, "sched-1", claims.ScheduleID)
}

func TestShareTokenRejectsTampering(t *testing.T) {
	signer := NewShareTokenSigner("secret", time.Hour)
	token, _, err := signer.Issue("sched-1", "owner")
	require.NoError(t, err)

	_, err = signer.Verify("sched-2" + token[len("sched-1"):])
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewShareTokenSigner("other", time.Hour).Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = signer.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestShareTokenRequiresIdentifiers(t *testing.T) {
	_, _, err := NewShareTokenSigner("secret", time.Hour).Issue("", "owner")
	require.Error(t, err)
	_, _, err = NewShareTokenSigner("", time.Hour).Issue("sched", "owner")
	require.Error(t, err)
}
