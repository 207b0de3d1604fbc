package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/securecase/securecase/pkg/metrics"
)

var ErrInvalidToken = errors.New("invalid or expired access token")

// TokenService issues and validates the opaque bearer tokens attached to
// every authenticated request. Tokens live server-side with a TTL; a
// background sweep drops expired entries. Explicit session state is the
// only way a request learns who the caller is.
type TokenService struct {
	tokens  map[string]tokenData
	mutex   sync.RWMutex
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.MetricsCollector
	done    chan struct{}
}

type tokenData struct {
	UserID    uint
	IssuedAt  time.Time
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
}

func NewTokenService(ttl time.Duration, logger *zap.Logger, collector *metrics.MetricsCollector) *TokenService {
	ts := &TokenService{
		tokens:  make(map[string]tokenData),
		ttl:     ttl,
		logger:  logger.With(zap.String("service", "token_service")),
		metrics: collector,
		done:    make(chan struct{}),
	}
	go ts.startCleanup()
	return ts
}

func (ts *TokenService) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ts.cleanupExpired()
		case <-ts.done:
			return
		}
	}
}

func (ts *TokenService) cleanupExpired() {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	now := time.Now()
	for token, data := range ts.tokens {
		if now.After(data.ExpiresAt) {
			delete(ts.tokens, token)
			ts.metrics.IncrementCounter("token_service.tokens_expired", nil)
		}
	}
}

// Issue creates a bearer token for the user.
func (ts *TokenService) Issue(userID uint, ipAddress, userAgent string) string {
	token := uuid.New().String()
	now := time.Now()

	ts.mutex.Lock()
	ts.tokens[token] = tokenData{
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(ts.ttl),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	ts.mutex.Unlock()

	ts.logger.Info("Issued access token",
		zap.Uint("user_id", userID),
		zap.String("token", token[:8]+"..."),
		zap.String("ip_address", ipAddress),
	)
	ts.metrics.IncrementCounter("token_service.tokens_issued", nil)
	return token
}

// Validate resolves a bearer token to the owning user id.
func (ts *TokenService) Validate(token string) (uint, error) {
	ts.mutex.RLock()
	data, exists := ts.tokens[token]
	ts.mutex.RUnlock()

	if !exists || time.Now().After(data.ExpiresAt) {
		return 0, ErrInvalidToken
	}
	return data.UserID, nil
}

// Revoke invalidates a single token (logout).
func (ts *TokenService) Revoke(token string) {
	ts.mutex.Lock()
	delete(ts.tokens, token)
	ts.mutex.Unlock()
}

// RevokeUser invalidates every token held by a user. Called when a user
// is banned so the ban takes effect immediately.
func (ts *TokenService) RevokeUser(userID uint) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	for token, data := range ts.tokens {
		if data.UserID == userID {
			delete(ts.tokens, token)
		}
	}
}

// Close stops the background cleanup goroutine.
func (ts *TokenService) Close() {
	close(ts.done)
}
