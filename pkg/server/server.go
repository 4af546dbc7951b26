// Package server exposes track loading over HTTP.
//
// Routes:
//
//	GET /healthz                    liveness probe
//	GET /api/v1/sources             registered sources in display order
//	GET /api/v1/tracks/{accession}  populated track tree as JSON
//
// The tracks route accepts ?expand=true to return every leaf expanded.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/seqtracks/pkg/container"
	apperrors "github.com/matzehuels/seqtracks/pkg/errors"
	"github.com/matzehuels/seqtracks/pkg/manager"
	"github.com/matzehuels/seqtracks/pkg/surface"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// requestTimeout bounds one tracks request. Feeds have their own, shorter
// timeout; this covers the whole fan-out.
const requestTimeout = 30 * time.Second

// Server serves the track API.
type Server struct {
	manager *manager.Manager
	logger  *log.Logger
	router  chi.Router
}

// New creates a Server backed by m. A nil logger selects log.Default().
func New(m *manager.Manager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{manager: m, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sources", s.handleSources)
		r.With(middleware.Timeout(requestTimeout)).Get("/tracks/{accession}", s.handleTracks)
	})
	return r
}

type sourceInfo struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
}

func (s *Server) handleSources(w http.ResponseWriter, _ *http.Request) {
	var out []sourceInfo
	for _, reg := range s.manager.Registry().All() {
		out = append(out, sourceInfo{Name: reg.Name, Endpoint: reg.Endpoint})
	}
	writeJSON(w, http.StatusOK, out)
}

// TracksResponse is the body of the tracks route.
type TracksResponse struct {
	surface.Document
	Empty    []string      `json:"empty,omitempty"`
	Failed   []sourceError `json:"failed,omitempty"`
	Duration string        `json:"duration"`
}

type sourceError struct {
	Source  string         `json:"source"`
	Code    apperrors.Code `json:"code,omitempty"`
	Message string         `json:"message"`
}

func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	mem := surface.NewMemory()
	res, err := s.manager.Load(r.Context(), chi.URLParam(r, "accession"), mem)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("expand") == "true" {
		for _, c := range res.Containers {
			for _, leaf := range container.Collect(c.Node) {
				leaf.Toggle(mem)
			}
		}
	}

	resp := TracksResponse{
		Document: surface.Export(mem, res.Accession),
		Empty:    res.Empty,
		Duration: res.Duration.Round(time.Millisecond).String(),
	}
	for name, ferr := range res.Failed {
		resp.Failed = append(resp.Failed, sourceError{
			Source:  name,
			Code:    apperrors.GetCode(ferr),
			Message: ferr.Error(),
		})
	}
	sort.Slice(resp.Failed, func(i, j int) bool { return resp.Failed[i].Source < resp.Failed[j].Source })
	writeJSON(w, http.StatusOK, resp)
}

type errorBody struct {
	Code  apperrors.Code `json:"code"`
	Error string         `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	writeJSON(w, apperrors.HTTPStatus(code), errorBody{Code: code, Error: apperrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}
