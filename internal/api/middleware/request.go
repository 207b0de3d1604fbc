package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/securecase/securecase/internal/httputil"
	"github.com/securecase/securecase/pkg/metrics"
)

type IPAttemptTracker struct {
	attempts     map[string]*IPAttemptInfo
	mu           sync.RWMutex
	maxAttempts  int
	cleanupEvery time.Duration
	done         chan struct{}
}

type IPAttemptInfo struct {
	Count       int
	LastAttempt time.Time
	Blocked     bool
}

func NewIPAttemptTracker(maxAttempts int) *IPAttemptTracker {
	tracker := &IPAttemptTracker{
		attempts:     make(map[string]*IPAttemptInfo),
		maxAttempts:  maxAttempts,
		cleanupEvery: 5 * time.Minute,
		done:         make(chan struct{}),
	}
	go tracker.startCleanup()
	return tracker
}

func (t *IPAttemptTracker) startCleanup() {
	ticker := time.NewTicker(t.cleanupEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.cleanOldEntries()
		case <-t.done:
			return
		}
	}
}

// Close stops the cleanup goroutine.
func (t *IPAttemptTracker) Close() {
	close(t.done)
}

func (t *IPAttemptTracker) cleanOldEntries() {
	t.mu.Lock()
	defer t.mu.Unlock()

	expiry := time.Now().Add(-30 * time.Second)
	for ip, info := range t.attempts {
		if info.LastAttempt.Before(expiry) {
			delete(t.attempts, ip)
		}
	}
}

func (t *IPAttemptTracker) RecordAttempt(ip string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	info, exists := t.attempts[ip]
	if !exists {
		info = &IPAttemptInfo{}
		t.attempts[ip] = info
	}
	info.Count++
	info.LastAttempt = time.Now()
	if info.Count > t.maxAttempts {
		info.Blocked = true
	}
}

func (t *IPAttemptTracker) IsBlocked(ip string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	info, exists := t.attempts[ip]
	return exists && info.Blocked
}

type RequestMiddleware struct {
	logger         *zap.Logger
	metrics        *metrics.MetricsCollector
	attemptTracker *IPAttemptTracker
}

func NewRequestMiddleware(logger *zap.Logger, collector *metrics.MetricsCollector, maxLoginAttempts int) *RequestMiddleware {
	return &RequestMiddleware{
		logger:         logger,
		metrics:        collector,
		attemptTracker: NewIPAttemptTracker(maxLoginAttempts),
	}
}

// Close stops the middleware's background goroutines.
func (rm *RequestMiddleware) Close() {
	rm.attemptTracker.Close()
}

// ProcessRequest tags every request with an id and logs start/finish
// with latency, feeding the metrics collector.
func (rm *RequestMiddleware) ProcessRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		rm.metrics.ObserveLatency("http.request", duration)
		rm.metrics.IncrementCounter("http.requests", map[string]string{"method": c.Request.Method})
		rm.logger.Info("Request completed",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()))
	}
}

// LoginAttemptMiddleware throttles repeated login attempts per source IP.
func (rm *RequestMiddleware) LoginAttemptMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "POST" && c.FullPath() == "/api/auth/login" {
			clientIP := c.ClientIP()
			rm.attemptTracker.RecordAttempt(clientIP)
			if rm.attemptTracker.IsBlocked(clientIP) {
				rm.logger.Warn("Login throttled",
					zap.String("client_ip", clientIP))
				httputil.Error(c, 429, "too many login attempts, try again later")
				return
			}
		}
		c.Next()
	}
}

// RecoverPanic converts a handler panic into a 500 response.
func (rm *RequestMiddleware) RecoverPanic() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := c.GetString("request_id")
				rm.logger.Error("Panic recovered",
					zap.String("request_id", requestID),
					zap.Any("error", err),
					zap.Stack("stack"))
				httputil.Error(c, 500, "internal server error")
			}
		}()
		c.Next()
	}
}
