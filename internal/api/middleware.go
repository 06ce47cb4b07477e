package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// loggingMiddleware logs each request once it has been served.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// maxTrackedClients bounds the number of client buckets kept in memory. The
// least recently seen client is dropped first.
const maxTrackedClients = 10000

// ipLimiter hands out one token bucket per client address.
type ipLimiter struct {
	mu       sync.Mutex
	rps      int
	burst    int
	limiters *lru.Cache[string, *rate.Limiter]
}

func newIPLimiter(rps, burst, size int) *ipLimiter {
	if size <= 0 {
		size = maxTrackedClients
	}
	cache, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		panic(err) // size is positive
	}
	return &ipLimiter{rps: rps, burst: burst, limiters: cache}
}

func (l *ipLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.limiters.Get(key); ok {
		return lim
	}
	burst := l.burst
	if burst <= 0 {
		burst = l.rps
	}
	lim := rate.NewLimiter(rate.Every(time.Second/time.Duration(l.rps)), burst)
	l.limiters.Add(key, lim)
	return lim
}

// rateLimit rejects clients that exceed the configured request rate. A
// non-positive rate disables limiting.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter.rps <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		if !s.limiter.get(clientKey(r)).Allow() {
			respondError(w, http.StatusTooManyRequests, "too many requests, please slow down", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
