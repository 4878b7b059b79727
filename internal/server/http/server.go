package internalhttp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/eventdesk/eventdesk/internal/app"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Host string
	Port int
}

type Server struct {
	srv  *http.Server
	addr string
	app  *app.App
}

func NewServer(config Config, app *app.App) *Server {
	addr := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	return &Server{
		addr: addr,
		srv:  &http.Server{Addr: addr},
		app:  app,
	}
}

// Handler builds the full route tree. Exposed so tests can drive the router
// without a listening socket.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	r.Use(loggingMiddleware)

	r.Get("/", s.root)
	r.Get("/api/hello", s.hello)
	r.Get("/test", s.diagnostics)

	r.Route("/api/events", func(r chi.Router) {
		r.Post("/", s.createEvent)
		r.Route("/{eventID}", func(r chi.Router) {
			r.Get("/", s.getEvent)
			r.Post("/rsvp", s.setRsvp)
			r.Get("/rsvp/{userID}", s.getMyRsvp)
			r.Get("/counts", s.getCounts)
		})
	})

	return r
}

func (s *Server) Start(_ context.Context) error {
	s.srv.Handler = s.Handler()

	log.Printf("starting http server on %s", s.addr)
	err := s.srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func getIP(req *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return "", fmt.Errorf("userip: %q is not IP:port", req.RemoteAddr)
	}

	if parsed := net.ParseIP(ip); parsed == nil {
		return "", fmt.Errorf("userip: %q is not IP:port", req.RemoteAddr)
	}
	return ip, nil
}
