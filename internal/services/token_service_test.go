package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/securecase/securecase/pkg/metrics"
)

func TestTokenIssueAndValidate(t *testing.T) {
	ts := NewTokenService(time.Hour, zap.NewNop(), metrics.NewMetricsCollector())
	defer ts.Close()

	token := ts.Issue(42, "127.0.0.1", "test")
	require.NotEmpty(t, token)

	userID, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)

	_, err = ts.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiry(t *testing.T) {
	ts := NewTokenService(10*time.Millisecond, zap.NewNop(), metrics.NewMetricsCollector())
	defer ts.Close()

	token := ts.Issue(1, "127.0.0.1", "test")
	time.Sleep(30 * time.Millisecond)

	_, err := ts.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRevoke(t *testing.T) {
	ts := NewTokenService(time.Hour, zap.NewNop(), metrics.NewMetricsCollector())
	defer ts.Close()

	token := ts.Issue(1, "127.0.0.1", "test")
	ts.Revoke(token)

	_, err := ts.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRevokeUserDropsAllSessions(t *testing.T) {
	ts := NewTokenService(time.Hour, zap.NewNop(), metrics.NewMetricsCollector())
	defer ts.Close()

	first := ts.Issue(7, "127.0.0.1", "laptop")
	second := ts.Issue(7, "10.0.0.2", "phone")
	other := ts.Issue(8, "127.0.0.1", "test")

	ts.RevokeUser(7)

	_, err := ts.Validate(first)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = ts.Validate(second)
	assert.ErrorIs(t, err, ErrInvalidToken)

	userID, err := ts.Validate(other)
	require.NoError(t, err)
	assert.Equal(t, uint(8), userID)
}
