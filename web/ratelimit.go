/* ratelimit.go
 * Per-IP rate limiting for the admin endpoints. Each client address gets its
 * own token bucket so one noisy caller cannot lock everyone else out.
 */

package web

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitor holds the rate limiter and the last time we saw this IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors   = make(map[string]*visitor)
	visitorsMu sync.Mutex
)

// newVisitorLimiter creates the limiter applied to each admin caller:
// 1 request per second on average with a burst of 100.
func newVisitorLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Second), 100)
}

func getVisitor(ip string) *rate.Limiter {
	visitorsMu.Lock()
	defer visitorsMu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		limiter := newVisitorLimiter()
		visitors[ip] = &visitor{
			limiter:  limiter,
			lastSeen: time.Now(),
		}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// clientIP strips the port from the remote address. Falls back to the raw
// address when there is no port to strip.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// rateLimited applies the per-IP limit before passing the request on.
func rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limiter := getVisitor(clientIP(r))
		if !limiter.Allow() {
			http.Error(w, "Too many requests. Please slow down.", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
