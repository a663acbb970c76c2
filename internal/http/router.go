package httpx

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/studytrack/api/internal/service/auth"
	"github.com/studytrack/api/internal/service/note"
	"github.com/studytrack/api/internal/service/subject"
	"github.com/studytrack/api/internal/service/task"
)

// Router wires HTTP endpoints to services.
type Router struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	auth     auth.Service
	subjects subject.Service
	tasks    task.Service
	notes    note.Service
	limiter  RateLimiter
	dbHealth func(context.Context) error

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	rateLimitHits      *prometheus.CounterVec
}

const (
	rateWindowDefault  = time.Minute
	rateLimitSignup    = 5
	rateLimitLogin     = 12
	rateLimitUserWrite = 60
	rateLimitUserRead  = 120
	healthCheckTimeout = 2 * time.Second
)

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, subjectSvc subject.Service, taskSvc task.Service, noteSvc note.Service, limiter RateLimiter, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		logger:   logger,
		auth:     authSvc,
		subjects: subjectSvc,
		tasks:    taskSvc,
		notes:    noteSvc,
		limiter:  limiter,
		dbHealth: dbHealth,
	}
	if r.limiter == nil {
		r.limiter = NewMemoryRateLimiter()
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) register() {
	r.mux.HandleFunc("GET /healthz", r.audit("/healthz", r.handleHealthz))
	r.mux.Handle("GET /metrics", promhttp.Handler())

	r.mux.HandleFunc("POST /auth/signup", r.audit("/auth/signup", r.withRateLimit("/auth/signup", rateLimitSignup, rateWindowDefault, rateLimitKeyIP, r.handleSignup)))
	r.mux.HandleFunc("POST /auth/login", r.audit("/auth/login", r.withRateLimit("/auth/login", rateLimitLogin, rateWindowDefault, rateLimitKeyIP, r.handleLogin)))

	r.mux.HandleFunc("GET /subjects", r.audit("/subjects", r.handlerAuthRate("/subjects", rateLimitUserRead, rateWindowDefault, r.handleListSubjects)))
	r.mux.HandleFunc("POST /subjects", r.audit("/subjects", r.handlerAuthRate("/subjects", rateLimitUserWrite, rateWindowDefault, r.handleCreateSubject)))
	r.mux.HandleFunc("PUT /subjects/{id}", r.audit("/subjects/{id}", r.handlerAuthRate("/subjects/{id}", rateLimitUserWrite, rateWindowDefault, r.handleUpdateSubject)))
	r.mux.HandleFunc("DELETE /subjects/{id}", r.audit("/subjects/{id}", r.handlerAuthRate("/subjects/{id}", rateLimitUserWrite, rateWindowDefault, r.handleDeleteSubject)))

	r.mux.HandleFunc("GET /tasks", r.audit("/tasks", r.handlerAuthRate("/tasks", rateLimitUserRead, rateWindowDefault, r.handleListTasks)))
	r.mux.HandleFunc("POST /tasks", r.audit("/tasks", r.handlerAuthRate("/tasks", rateLimitUserWrite, rateWindowDefault, r.handleCreateTask)))
	r.mux.HandleFunc("PUT /tasks/{id}", r.audit("/tasks/{id}", r.handlerAuthRate("/tasks/{id}", rateLimitUserWrite, rateWindowDefault, r.handleUpdateTask)))
	r.mux.HandleFunc("DELETE /tasks/{id}", r.audit("/tasks/{id}", r.handlerAuthRate("/tasks/{id}", rateLimitUserWrite, rateWindowDefault, r.handleDeleteTask)))

	r.mux.HandleFunc("GET /notes", r.audit("/notes", r.handlerAuthRate("/notes", rateLimitUserRead, rateWindowDefault, r.handleListNotes)))
	r.mux.HandleFunc("POST /notes", r.audit("/notes", r.handlerAuthRate("/notes", rateLimitUserWrite, rateWindowDefault, r.handleCreateNote)))
	r.mux.HandleFunc("PUT /notes/{id}", r.audit("/notes/{id}", r.handlerAuthRate("/notes/{id}", rateLimitUserWrite, rateWindowDefault, r.handleUpdateNote)))
	r.mux.HandleFunc("DELETE /notes/{id}", r.audit("/notes/{id}", r.handlerAuthRate("/notes/{id}", rateLimitUserWrite, rateWindowDefault, r.handleDeleteNote)))
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	components := make(map[string]any)
	status := "ok"
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			components["database"] = map[string]any{
				"status": "down",
				"error":  err.Error(),
			}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	payload := map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

// audit logs every request with its resolved actor and records metrics.
func (r *Router) audit(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		ctx := recorder.ctx
		if ctx == nil {
			ctx = req.Context()
		}
		duration := time.Since(start)
		r.recordRequestMetrics(req.Method, route, status, duration)

		actor := "anonymous"
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := strings.TrimSpace(req.Header.Get("X-Request-ID")); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		if info, ok := authInfoFromContext(ctx); ok {
			actor = "user"
			fields = append(fields, "user_id", info.UserID)
		}
		fields = append(fields, "actor", actor)

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	ctx    context.Context
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) SetContext(ctx context.Context) {
	sr.ctx = ctx
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func clientIP(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}
