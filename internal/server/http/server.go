package internalhttp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/corentintrosseille/doctolib-test/internal/app"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Host string
	Port int
}

type Server struct {
	srv  *http.Server
	app  *app.App
	addr string
}

func NewServer(config Config, app *app.App) *Server {
	return &Server{
		addr: net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		srv:  &http.Server{Addr: net.JoinHostPort(config.Host, strconv.Itoa(config.Port))},
		app:  app,
	}
}

func (s *Server) Start(_ context.Context) error {
	s.srv.Handler = loggingMiddleware(s.Handler())

	log.Printf("starting http server on %s", s.addr)
	err := s.srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}

	return nil
}

// Handler builds the route table. Separate from Start so tests can drive the
// mux without a listener.
func (s *Server) Handler() http.Handler {
	mux := runtime.NewServeMux()

	mux.HandlePath("GET", "/availabilities", s.getAvailabilities)
	mux.HandlePath("GET", "/openings/recurring", s.getRecurringOpenings)
	mux.HandlePath("POST", "/events", s.postEvent)
	mux.HandlePath("PUT", "/events/{id}", s.putEvent)
	mux.HandlePath("DELETE", "/events/{id}", s.deleteEvent)
	mux.HandlePath("GET", "/events/{id}", s.getEvent)

	return mux
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
