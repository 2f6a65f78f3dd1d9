package server

import (
	"crypto/subtle"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/osse101/rewardwheel/internal/logger"
)

// AuthMiddleware validates the API key on everything outside PublicPaths
func AuthMiddleware(apiKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			provided := providedKey(r)

			// Constant time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				ip := extractIP(r, trustedProxies)
				detector.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"has_key", provided != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// providedKey reads X-API-Key, then a bearer token. The event stream also takes the
// api_key query parameter since an EventSource cannot set headers.
func providedKey(r *http.Request) string {
	if key := r.Header.Get(HeaderAPIKey); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get(HeaderAuthorization), BearerPrefix); ok {
		return strings.TrimSpace(token)
	}
	if r.URL.Path == EventsPath {
		return r.URL.Query().Get(QueryParamAPIKey)
	}
	return ""
}

// isPublicPath matches a public entry exactly or as a directory prefix, so
// "/healthz" passes but "/healthzz" does not
func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if path == strings.TrimSuffix(p, "/") || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// detectorWindow holds the per-IP counters of one DetectorWindow
type detectorWindow struct {
	start      time.Time
	failedAuth map[string]int
	requests   map[string]int
	spins      map[string]int
}

func newDetectorWindow(start time.Time) detectorWindow {
	return detectorWindow{
		start:      start,
		failedAuth: make(map[string]int),
		requests:   make(map[string]int),
		spins:      make(map[string]int),
	}
}

// SuspiciousActivityDetector counts failed logins and request rates per IP over a
// fixed window. Spin attempts have a lower ceiling than other requests: the daily
// budget already caps real spins, so a client hammering the endpoint is scripted.
type SuspiciousActivityDetector struct {
	mu     sync.Mutex
	now    func() time.Time
	window detectorWindow
}

func NewSuspiciousActivityDetector() *SuspiciousActivityDetector {
	return &SuspiciousActivityDetector{
		now:    time.Now,
		window: newDetectorWindow(time.Now()),
	}
}

// RecordFailedAuth records a failed authentication attempt
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollLocked()
	s.window.failedAuth[ip]++

	if count := s.window.failedAuth[ip]; count >= FailedAuthAlertCount {
		logger.Warn(SecurityAlertFailedAuth, "ip", ip, "count", count)
	}
}

// RecordRequest counts a request and reports whether the IP is still under its limit
func (s *SuspiciousActivityDetector) RecordRequest(ip string, spin bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollLocked()
	s.window.requests[ip]++
	if count := s.window.requests[ip]; count > MaxRequestsPerWindow {
		// every HighRateLogEvery-th rejection, to keep logs readable
		if count%HighRateLogEvery == 0 {
			logger.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", count)
		}
		return false
	}

	if !spin {
		return true
	}
	s.window.spins[ip]++
	if count := s.window.spins[ip]; count > MaxSpinsPerWindow {
		if count == MaxSpinsPerWindow+1 {
			logger.Warn(SecurityAlertSpinFlood, "ip", ip, "spins_in_window", count)
		}
		return false
	}
	return true
}

// rollLocked starts a fresh window once the current one has expired
func (s *SuspiciousActivityDetector) rollLocked() {
	now := s.now()
	if now.Sub(s.window.start) > DetectorWindow {
		s.window = newDetectorWindow(now)
	}
}

// SecurityLoggingMiddleware enforces the detector's per-IP rate limits
func SecurityLoggingMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r, trustedProxies)
			spin := r.Method == http.MethodPost && r.URL.Path == SpinPath

			if !detector.RecordRequest(ip, spin) {
				w.Header().Set(HeaderRetryAfter, RetryAfterSeconds)
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractIP gets the client IP address from request.
// It only trusts X-Forwarded-For if the request comes from a trusted proxy.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if slices.Contains(trustedProxies, remoteIP) {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			// Rightmost entry is the hop our trusted proxy saw
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
	}

	return remoteIP
}

// SecurityHeadersMiddleware adds security headers to responses. API responses carry
// per-user spin results and are never cacheable.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueSameOrigin)
			h.Set(HeaderXSSProtection, HeaderValueXSSBlock)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			if strings.HasPrefix(r.URL.Path, APIPrefix) {
				h.Set(HeaderCacheControl, HeaderValueNoStore)
			}

			next.ServeHTTP(w, r)
		})
	}
}
