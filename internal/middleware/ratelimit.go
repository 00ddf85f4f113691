package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientInfo struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit ограничивает число запросов с одного IP в минуту.
// Клиенты, не заходившие дольше idle, забываются.
func RateLimit(rpm int, idle time.Duration) func(http.Handler) http.Handler {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if idle <= 0 {
		idle = 10 * time.Minute
	}

	clients := make(map[string]*clientInfo)
	var mtx sync.Mutex
	every := rate.Every(time.Minute / time.Duration(rpm))
	lastCleanup := time.Now()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getIp(r)
			now := time.Now()

			mtx.Lock()
			if now.Sub(lastCleanup) > idle {
				for key, info := range clients {
					if now.Sub(info.lastSeen) > idle {
						delete(clients, key)
					}
				}
				lastCleanup = now
			}

			info, exists := clients[ip]
			if !exists {
				info = &clientInfo{limiter: rate.NewLimiter(every, rpm)}
				clients[ip] = info
			}
			info.lastSeen = now
			reservation := info.limiter.ReserveN(now, 1)
			delay := reservation.DelayFrom(now)
			if delay > 0 {
				reservation.CancelAt(now)
			}
			remaining := int(math.Max(0, math.Floor(info.limiter.TokensAt(now))))
			mtx.Unlock()

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rpm))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if delay > 0 {
				retryAfter := int(math.Ceil(delay.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeJSON(w, http.StatusTooManyRequests, map[string]any{
					"error":       "rate_limit_exceeded",
					"message":     "Слишком много запросов. Попробуйте позже.",
					"retry_after": retryAfter,
					"request_id":  GetRequestID(r.Context()),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func getIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
