package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/book-lending/book"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type options struct {
	logger         *zerolog.Logger
	allowedOrigins []string
	limiter        *IPRateLimiter
	metrics        http.Handler
	timeout        time.Duration
	trustProxy     bool
}

// Option configures the router built by Handlers
type Option func(*options)

// WithLogger replaces the default JSON request logger
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = &logger }
}

// WithAllowedOrigins restricts CORS; the default is "*"
func WithAllowedOrigins(origins ...string) Option {
	return func(o *options) {
		if len(origins) > 0 {
			o.allowedOrigins = origins
		}
	}
}

// WithRateLimit limits each client IP on the books routes; requests <= 0 disables it
func WithRateLimit(requests int, window time.Duration) Option {
	return func(o *options) {
		if requests <= 0 || window <= 0 {
			o.limiter = nil
			return
		}
		o.limiter = NewIPRateLimiter(requests, window)
	}
}

// WithTrustedProxy takes the client IP from X-Forwarded-For / X-Real-IP.
// Only enable it behind a proxy that overwrites those headers.
func WithTrustedProxy(trust bool) Option {
	return func(o *options) { o.trustProxy = trust }
}

// WithMetricsHandler mounts h on GET /metrics
func WithMetricsHandler(h http.Handler) Option {
	return func(o *options) { o.metrics = h }
}

func Handlers(ctx context.Context, bookService book.UseCase, opts ...Option) *chi.Mux {
	o := options{
		allowedOrigins: []string{"*"},
		timeout:        30 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	// Logger
	logger := httplog.NewLogger("book-lending", httplog.Options{
		JSON: true,
	})
	if o.logger != nil {
		logger = *o.logger
	}

	r := chi.NewRouter()
	if o.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(httplog.RequestLogger(logger, []string{"/health"}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(o.timeout))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: o.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	if o.metrics != nil {
		r.Method(http.MethodGet, "/metrics", o.metrics)
	}

	if o.limiter != nil {
		go o.limiter.Run(ctx)
	}

	r.Route("/books", func(r chi.Router) {
		if o.limiter != nil {
			r.Use(o.limiter.Middleware)
		}
		r.Method(http.MethodGet, "/", getBooks(bookService))
		r.Method(http.MethodPost, "/", postBooks(bookService))
		r.Method(http.MethodGet, "/{id}", getBook(bookService))
		r.Method(http.MethodPatch, "/{id}", patchBook(bookService))
		r.Method(http.MethodDelete, "/{id}", deleteBook(bookService))
	})

	return r
}
