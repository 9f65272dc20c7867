// Package server exposes hand classification over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lox/handrank/internal/evaluator"
	"github.com/lox/handrank/internal/history"
)

const maxBodyBytes = 1 << 20

// HistoryStore records classifications. *history.Store implements it.
type HistoryStore interface {
	Record(ctx context.Context, r history.Record) (history.Record, error)
	List(ctx context.Context, limit int) ([]history.Record, error)
	Get(ctx context.Context, id string) (history.Record, error)
}

// Options configure a Server. Zero values fall back to defaults.
type Options struct {
	Logger *log.Logger
	// AccessLog receives one JSON line per HTTP request.
	AccessLog      io.Writer
	Clock          quartz.Clock
	History        HistoryStore
	Rules          evaluator.Rules
	OddsIterations int
	OddsWorkers    int
	RequestTimeout time.Duration
}

// Server serves the classification API.
type Server struct {
	router         *chi.Mux
	logger         *log.Logger
	access         zerolog.Logger
	clock          quartz.Clock
	history        HistoryStore
	evaluator      *evaluator.Evaluator
	oddsIterations int
	oddsWorkers    int
	upgrader       websocket.Upgrader

	// ctx governs WebSocket connections only. HTTP requests are drained
	// by http.Server.Shutdown and never see it.
	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	httpServer  *http.Server
	connections map[*Connection]struct{}
	wg          sync.WaitGroup
}

// New creates a server and registers its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.AccessLog == nil {
		opts.AccessLog = io.Discard
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.OddsIterations <= 0 {
		opts.OddsIterations = 20000
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		router:         chi.NewRouter(),
		logger:         opts.Logger.WithPrefix("server"),
		access:         zerolog.New(opts.AccessLog).With().Timestamp().Logger(),
		clock:          opts.Clock,
		history:        opts.History,
		evaluator:      evaluator.New(evaluator.WithRules(opts.Rules)),
		oddsIterations: opts.OddsIterations,
		oddsWorkers:    opts.OddsWorkers,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		ctx:         ctx,
		cancel:      cancel,
		connections: make(map[*Connection]struct{}),
	}

	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.Recoverer)
	s.router.Use(s.accessLog)

	s.router.Get("/ws", s.handleWebSocket)
	s.router.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(opts.RequestTimeout))
		r.Use(jsonContentType)

		r.Get("/health", s.handleHealth)
		r.Post("/classify", s.handleClassify)
		r.Post("/compare", s.handleCompare)
		r.Post("/odds", s.handleOdds)
		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleHistoryList)
			r.Get("/{id}", s.handleHistoryGet)
		})
	})
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "no route for " + r.URL.Path, Code: CodeNotFound})
	})

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe listens on addr and serves until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown. It returns nil after a
// clean shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()
	if s.ctx.Err() != nil {
		return nil
	}

	s.logger.Info("Starting server", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes WebSocket connections and stops accepting requests.
// In-flight HTTP requests run to completion until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	srv := s.httpServer
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	s.logger.Info("Server stopped")
	return err
}

// ConnectionCount returns the number of open WebSocket connections.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.ctx.Err() != nil {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(s.ctx, conn, s)
	s.mu.Lock()
	s.connections[client] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	if s.ctx.Err() != nil {
		// Shutdown may have swept connections before this one registered.
		_ = client.Close()
	}
	s.logger.Info("Client connected", "total", total)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		client.Run()

		s.mu.Lock()
		delete(s.connections, client)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "total", total)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.classify(r.Context(), "http", req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.compare(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOdds(w http.ResponseWriter, r *http.Request) {
	var req OddsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.odds(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "history is disabled", Code: CodeNotFound})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer", Code: CodeBadRequest})
			return
		}
		limit = n
	}

	records, err := s.history.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Records: records})
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "history is disabled", Code: CodeNotFound})
		return
	}
	rec, err := s.history.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// accessLog writes one structured line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := s.clock.Now()
		next.ServeHTTP(ww, r)

		s.access.Info().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", s.clock.Since(start)).
			Msg("request")
	})
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON: " + err.Error(), Code: CodeBadRequest})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	status, body := errorResponse(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
