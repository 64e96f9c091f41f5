package handlers

import (
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

var (
	requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outreach_admin_requests_total",
		Help: "Total number of HTTP requests handled, by route and status.",
	}, []string{"route", "method", "status"})

	loginThrottled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outreach_admin_login_throttled_total",
		Help: "Total number of login attempts rejected by the rate limiter.",
	})
)

func init() {
	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(loginThrottled)
}

// countRequests records a per-route request counter after the handler runs.
func (h *Handler) countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestCounter.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Login rate limiting knobs.
const (
	loginRatePerSecond = 2
	loginBurst         = 5
)

// ipLimiter keeps a token bucket per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.r, l.burst)
		l.limiters[ip] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
