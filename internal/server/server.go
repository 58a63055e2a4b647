// Package server serves the orderdesk dashboard: sign-in pages, the
// order entry form and the admin overview, each gated by the access guard.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/orderdesk/orderdesk/internal/guard"
	"github.com/orderdesk/orderdesk/internal/orders"
	"github.com/orderdesk/orderdesk/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Route paths
const (
	loginPath          = guard.LoginPath
	userDashboardPath  = guard.LandingPath
	adminDashboardPath = "/dashboard"
	registerPath       = "/register"
	logoutPath         = "/logout"
)

const recentSubmissions = 10

// Options configures the dashboard server
type Options struct {
	CORSOrigins []string
	Version     string
}

// Server represents the dashboard HTTP server
type Server struct {
	router   *gin.Engine
	sessions *session.Store
	orders   *orders.Service
	logger   zerolog.Logger
	opts     Options
}

// New creates a new server instance
func New(sessions *session.Store, orderService *orders.Service, zlog zerolog.Logger, opts Options) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		sessions: sessions,
		orders:   orderService,
		logger:   zlog.With().Str("component", "server").Logger(),
		opts:     opts,
	}

	sessions.Subscribe(s.logSessionChange)

	s.setupRouter(tmpl)
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter(tmpl *template.Template) {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()
	s.router.SetHTMLTemplate(tmpl)

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(s.rejectCrossSite())

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// Session state for scripts embedding the dashboard
	api := s.router.Group("/api")
	if len(s.opts.CORSOrigins) > 0 {
		api.Use(cors.New(cors.Config{
			AllowOrigins:     s.opts.CORSOrigins,
			AllowMethods:     []string{"GET", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	api.GET("/session", s.getSession)

	// Public pages
	s.router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, userDashboardPath) })
	s.router.GET(loginPath, s.loginPage)
	s.router.POST(loginPath, s.login)
	s.router.GET(registerPath, s.registerPage)
	s.router.POST(registerPath, s.register)
	s.router.POST(logoutPath, s.logout)

	// Any signed-in user
	user := s.router.Group("")
	user.Use(s.requireSession(false))
	{
		user.GET(userDashboardPath, s.orderForm)
		user.POST(userDashboardPath, s.createOrder)
	}

	// Admins only
	admin := s.router.Group("")
	admin.Use(s.requireSession(true))
	{
		admin.GET(adminDashboardPath, s.adminDashboard)
	}
}

// logSessionChange records what the guarded views will do after a change
func (s *Server) logSessionChange(snapshot session.Session) {
	event := s.logger.Debug().
		Bool("loading", snapshot.LoadingInitialState).
		Bool("authenticated", snapshot.Authenticated).
		Str("user_view", guard.Decide(snapshot, false).String()).
		Str("admin_view", guard.Decide(snapshot, true).String())
	if snapshot.Identity != nil {
		event = event.Str("user_id", snapshot.Identity.ID)
	}
	event.Msg("Session changed")
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
// The session store is initialized once the listener is up; requests that
// arrive before that see the loading page.
func (s *Server) Start(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", listener.Addr().String()).Msg("Starting dashboard")
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	s.sessions.Initialize()

	select {
	case err := <-serveErr:
		if err != nil {
			s.logger.Error().Err(err).Msg("HTTP server error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
