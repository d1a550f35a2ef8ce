package chi

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

/* IPRateLimiter counts requests per client IP in fixed windows.
 * Each window is a rate.Limiter with a zero refill rate and a burst of the request
 * budget: it hands out exactly that many tokens and is replaced when the window ends.
 */
type IPRateLimiter struct {
	windows  sync.Map // ip -> *ipWindow
	requests int
	window   time.Duration
	now      func() time.Time
}

type ipWindow struct {
	mu      sync.Mutex
	start   time.Time
	limiter *rate.Limiter
}

// NewIPRateLimiter allows at most requests per window for each IP
func NewIPRateLimiter(requests int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		requests: requests,
		window:   window,
		now:      time.Now,
	}
}

// GetLimiter returns the limiter of the current window for ip
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	w := l.get(ip)
	w.mu.Lock()
	defer w.mu.Unlock()
	l.roll(w, l.now())
	return w.limiter
}

// Allow consumes one request for ip at now; when refused it returns the time left in the window
func (l *IPRateLimiter) Allow(ip string, now time.Time) (bool, time.Duration) {
	w := l.get(ip)
	w.mu.Lock()
	defer w.mu.Unlock()

	l.roll(w, now)
	if w.limiter.AllowN(now, 1) {
		return true, 0
	}
	return false, w.start.Add(l.window).Sub(now)
}

// Sweep forgets clients whose window has ended before now
func (l *IPRateLimiter) Sweep(now time.Time) {
	l.windows.Range(func(key, value any) bool {
		w := value.(*ipWindow)
		w.mu.Lock()
		expired := !now.Before(w.start.Add(l.window))
		w.mu.Unlock()
		if expired {
			l.windows.CompareAndDelete(key, value)
		}
		return true
	})
}

// Run sweeps once per window until ctx is done
func (l *IPRateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep(l.now())
		}
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After header
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := l.Allow(clientIP(r), l.now())
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeError(w, r, http.StatusTooManyRequests, "Too Many Requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) get(ip string) *ipWindow {
	if w, ok := l.windows.Load(ip); ok {
		return w.(*ipWindow)
	}
	w, _ := l.windows.LoadOrStore(ip, &ipWindow{})
	return w.(*ipWindow)
}

// roll starts a new window when none is open or the current one has ended; w.mu must be held
func (l *IPRateLimiter) roll(w *ipWindow, now time.Time) {
	if w.limiter != nil && now.Before(w.start.Add(l.window)) {
		return
	}
	w.start = now
	w.limiter = rate.NewLimiter(0, l.requests)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
