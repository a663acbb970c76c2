package httpx

import (
	"net/http"
	"testing"
	"time"
)

func TestMemoryRateLimiterWindow(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	for i := 0; i < 3; i++ {
		decision := rl.Allow("ip:10.0.0.1", 3, time.Minute)
		if !decision.allowed {
			t.Fatalf("request %d blocked under the limit", i)
		}
	}
	if decision := rl.Allow("ip:10.0.0.1", 3, time.Minute); decision.allowed {
		t.Fatalf("fourth request allowed over a limit of 3")
	}
	// Other keys are counted independently.
	if decision := rl.Allow("ip:10.0.0.2", 3, time.Minute); !decision.allowed {
		t.Fatalf("unrelated key blocked")
	}
}

func TestMemoryRateLimiterWindowExpiry(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	window := 20 * time.Millisecond
	if decision := rl.Allow("k", 1, window); !decision.allowed {
		t.Fatalf("first request blocked")
	}
	if decision := rl.Allow("k", 1, window); decision.allowed {
		t.Fatalf("second request in window allowed")
	}
	time.Sleep(window + 10*time.Millisecond)
	if decision := rl.Allow("k", 1, window); !decision.allowed {
		t.Fatalf("request after window expiry still blocked")
	}
}

func TestMemoryRateLimiterZeroLimitDisables(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()
	for i := 0; i < 50; i++ {
		if decision := rl.Allow("k", 0, time.Minute); !decision.allowed {
			t.Fatalf("limit 0 should disable limiting")
		}
	}
}

func TestSignupRateLimitEnforced(t *testing.T) {
	router := newTestRouter(t)

	var last int
	for i := 0; i < rateLimitSignup+1; i++ {
		rec := doJSON(t, router, http.MethodPost, "/auth/signup", "", map[string]string{
			"name": "u", "email": "u@x.com", "password": "pw",
		})
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("request %d status = %d, want 429", rateLimitSignup+1, last)
	}
}

func TestRateLimitHeaders(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "pw",
	})
	if rec.Header().Get("X-RateLimit-Limit") == "" {
		t.Fatalf("missing X-RateLimit-Limit header")
	}
	if rec.Header().Get("X-RateLimit-Remaining") == "" {
		t.Fatalf("missing X-RateLimit-Remaining header")
	}
}

func TestRateMetricKey(t *testing.T) {
	cases := map[string]string{
		"ip:10.0.0.1": "ip",
		"user:abc":    "user",
		"":            "unknown",
		"plain":       "plain",
	}
	for in, want := range cases {
		if got := rateMetricKey(in); got != want {
			t.Fatalf("rateMetricKey(%q) = %q, want %q", in, got, want)
		}
	}
}
