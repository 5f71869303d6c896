// Package http exposes servicedoc over HTTP using the chi router.
package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/fwojciec/servicedoc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Defaults for NewServer.
const (
	DefaultAddr            = ":8000"
	DefaultRateLimit       = 2.0
	DefaultRateBurst       = 10
	DefaultMaxUploadBytes  = 10 << 20
	DefaultShutdownTimeout = 10 * time.Second
	DefaultCORSMaxAge      = 600
)

// DefaultAllowedOrigins are the browser origins of the bulletin front end.
var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"https://church-documentation-automation.vercel.app",
	"https://church-documentation-automation-mattmotokis-projects.vercel.app",
	"https://church-documentation-automation-production.up.railway.app",
}

// API identification returned by the root route.
const (
	apiName    = "Church Service API"
	apiVersion = "1.0.0"
)

// Server is the HTTP API. Services are assigned after NewServer and before
// Open; a nil TemplateService, PersonnelService or SlideRenderer disables
// the routes that need it.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	addr           string
	allowedOrigins []string
	trustProxy     bool
	limiter        *ClientLimiter
	maxUploadBytes int64
	logger         *slog.Logger

	// Now returns the current time; used for default bulletin dates.
	Now func() time.Time

	Parser           servicedoc.BulletinParser
	TemplateService  servicedoc.TemplateService
	PersonnelService servicedoc.PersonnelService
	BulletinRenderer servicedoc.BulletinRenderer
	SlideRenderer    servicedoc.SlideRenderer
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. Defaults to DefaultAddr.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithAllowedOrigins sets the CORS origins. Defaults to DefaultAllowedOrigins.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithTrustProxy makes the server take the client address from
// X-Forwarded-For and X-Real-IP. Enable it only behind a proxy that sets
// those headers; otherwise clients choose their own rate limit key.
func WithTrustProxy(trust bool) Option {
	return func(s *Server) {
		s.trustProxy = trust
	}
}

// WithRateLimit sets the per-client request rate for upload and generate
// routes. A non-positive rate disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = NewClientLimiter(rps, burst)
	}
}

// WithMaxUploadBytes caps request bodies on upload routes.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		s.maxUploadBytes = n
	}
}

// WithLogger sets the request and error logger. Defaults to a discarding
// logger; nil keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a Server with its routes registered.
func NewServer(opts ...Option) *Server {
	s := &Server{
		addr:           DefaultAddr,
		allowedOrigins: DefaultAllowedOrigins,
		limiter:        NewClientLimiter(DefaultRateLimit, DefaultRateBurst),
		maxUploadBytes: DefaultMaxUploadBytes,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(s.corsOptions()))

	r.Get("/", s.handleIndex)
	r.Get("/api/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(s.limitBody)

		r.Post("/api/parse-html", s.handleParseHTML)
		r.Post("/api/generate-bulletin", s.handleGenerateBulletin)
		r.Post("/api/generate-docx", s.handleGenerateBulletin)
		r.Post("/api/generate-welcome-slide", s.handleGenerateWelcomeSlide)
		r.Post("/api/slides/{template}", s.handleGenerateSlide)
	})

	r.Get("/api/slides", s.handleListSlides)

	r.Route("/api/templates", func(r chi.Router) {
		r.Get("/", s.handleListTemplates)
		r.Post("/", s.handleCreateTemplate)
		r.Get("/{id}", s.handleGetTemplate)
		r.Put("/{id}", s.handleUpdateTemplate)
		r.Delete("/{id}", s.handleDeleteTemplate)
	})

	r.Get("/api/personnel", s.handleGetPersonnel)
	r.Put("/api/personnel", s.handleReplacePersonnel)

	s.router = r
	s.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Open starts listening on the configured address.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address once Open has succeeded.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

// Serve handles connections until Shutdown. It returns nil after a clean
// shutdown.
func (s *Server) Serve() error {
	if s.ln == nil {
		return errors.New("server is not open")
	}
	s.logger.Info("listening", "addr", s.Addr())
	if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": apiName, "version": apiVersion})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// corsOptions allows the configured origins with any method and header.
// Credentials are not offered when any origin is allowed.
func (s *Server) corsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{
			http.MethodDelete, http.MethodGet, http.MethodHead, http.MethodOptions,
			http.MethodPatch, http.MethodPost, http.MethodPut,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: !slices.Contains(s.allowedOrigins, "*"),
		MaxAge:           DefaultCORSMaxAge,
	}
}

// logRequests logs one line per request after it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"requestID", middleware.GetReqID(r.Context()),
				"duration", time.Since(begin),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}

// limitBody caps the request body size.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.maxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
		}
		next.ServeHTTP(w, r)
	})
}
