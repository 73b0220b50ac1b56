package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"blogCMS/internal/metrics"
	"blogCMS/internal/service"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Middleware func(http.Handler) http.Handler

type contextKey string

const (
	principalKey contextKey = "principal"
	authErrorKey contextKey = "authError"
)

type Middlewares struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	auth    service.AuthService
}

func NewMiddlewares(logger *zap.Logger, m *metrics.Metrics, auth service.AuthService) *Middlewares {
	return &Middlewares{logger: logger, metrics: m, auth: auth}
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, code, message string, status int) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// RequestID reuses an incoming X-Request-ID or generates one.
func (m *Middlewares) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(chimw.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), chimw.RequestIDKey, requestID)
		w.Header().Set(chimw.RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger logs and measures every request. Registered with
// mux.Router.Use so the matched route template is known.
func (m *Middlewares) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		defer func() {
			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			m.logger.Info("HTTP request",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("size", ww.BytesWritten()),
				zap.Duration("duration", duration),
				zap.String("remote_addr", r.RemoteAddr),
			)

			m.metrics.RecordHTTPRequest(r.Method, route, status, duration)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (m *Middlewares) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				m.logger.Error("Panic recovered",
					zap.Any("panic", rvr),
					zap.String("request_id", chimw.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				)

				writeError(w, "INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (m *Middlewares) CORS(allowedOrigins []string) Middleware {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", chimw.RequestIDHeader},
		ExposedHeaders:   []string{chimw.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// RateLimit applies one process-wide token bucket; rpm <= 0 disables it.
func (m *Middlewares) RateLimit(rpm int) Middleware {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	burst := rpm / 6
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, "TOO_MANY_REQUESTS", "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authenticate attaches the bearer token's principal to the context. It never
// rejects a request; mutations decide later whether a principal is required.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.auth.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx = context.WithValue(ctx, authErrorKey, "invalid authorization header format")
		} else if principal, err := m.auth.ValidateToken(parts[1]); err != nil {
			ctx = context.WithValue(ctx, authErrorKey, err.Error())
		} else {
			ctx = context.WithValue(ctx, principalKey, principal)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuthor rejects the request with 401 when the guard is on and no
// valid token was presented.
func (m *Middlewares) RequireAuthor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := m.CheckAuthor(r.Context()); err != "" {
			writeError(w, "UNAUTHORIZED", err, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CheckAuthor returns an empty string when the caller may mutate data,
// otherwise the reason it may not.
func (m *Middlewares) CheckAuthor(ctx context.Context) string {
	if !m.auth.Enabled() {
		return ""
	}
	if _, ok := PrincipalFromContext(ctx); ok {
		return ""
	}
	if reason, ok := ctx.Value(authErrorKey).(string); ok {
		return reason
	}
	return "authorization required"
}

func PrincipalFromContext(ctx context.Context) (*service.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*service.Principal)
	return p, ok && p != nil
}

func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
