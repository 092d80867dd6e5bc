package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pstuifzand/go-textconv/document"
)

const requestIDHeader = "X-Request-ID"

// toolRequest is the body of POST /v1/tools/{tool}
type toolRequest struct {
	Input  string                 `json:"input"`
	Params map[string]interface{} `json:"params"`
}

// HTTPServer exposes the tool registry as a JSON API. It is stateless:
// every request runs one tool on the given input.
type HTTPServer struct {
	cfg  HTTPConfig
	srv  *http.Server
	once sync.Once
}

// NewHTTPServer creates an HTTP API server
func NewHTTPServer(cfg HTTPConfig) *HTTPServer {
	s := &HTTPServer{cfg: cfg}
	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	}
	return s
}

// Handler returns the API routes
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/tools", s.listTools)
		r.Post("/tools/{tool}", s.runTool)
		r.Post("/extract", s.extract)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *HTTPServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	log.Infof("http api listening on %s", ln.Addr())

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	var err error
	select {
	case <-ctx.Done():
		if shutdownErr := s.Shutdown(context.Background()); shutdownErr != nil {
			log.Warnf("http shutdown: %v", shutdownErr)
		}
		err = <-errCh
	case err = <-errCh:
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests up to the
// configured shutdown timeout
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		if s.cfg.ShutdownTimeout.Duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout.Duration)
			defer cancel()
		}
		err = s.srv.Shutdown(ctx)
	})
	return err
}

func (s *HTTPServer) listTools(w http.ResponseWriter, r *http.Request) {
	ops := GetOperations()
	tools := make([]map[string]interface{}, len(ops))
	for i, op := range ops {
		params := op.Params
		if params == nil {
			params = []string{}
		}
		tools[i] = map[string]interface{}{
			"name":        op.Name,
			"description": op.Description,
			"params":      params,
		}
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Result: map[string]interface{}{"tools": tools}})
}

func (s *HTTPServer) runTool(w http.ResponseWriter, r *http.Request) {
	tool := chi.URLParam(r, "tool")
	if _, ok := FindOperation(tool); !ok {
		writeError(w, r, http.StatusNotFound, fmt.Errorf("%w: %s", ErrUnknownTool, tool))
		return
	}

	var req toolRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, r, bodyErrorStatus(err), fmt.Errorf("invalid request body: %w", err))
		return
	}

	out, err := ProcessText(req.Input, tool, toParams(req.Params))
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Result: out})
}

// extract returns the plain text of the request body. The extractor is
// chosen from the Content-Type header and the optional filename query.
func (s *HTTPServer) extract(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		writeError(w, r, bodyErrorStatus(err), fmt.Errorf("invalid request body: %w", err))
		return
	}

	contentType := r.Header.Get("Content-Type")
	extractor := document.ForContent(r.URL.Query().Get("filename"), contentType, data)

	text, err := extractor.ExtractText(r.Context(), data)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, document.ErrUnsupportedFormat) {
			status = http.StatusUnsupportedMediaType
		}
		writeError(w, r, status, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Result: map[string]interface{}{"text": text}})
}

func bodyErrorStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// requestID tags every request and response with an ID
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		log.Debugf("[%s] %s %s", id, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	log.Infof("[%s] %s %s: %d %v", r.Header.Get(requestIDHeader), r.Method, r.URL.Path, status, err)
	writeJSON(w, status, Response{Success: false, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("failed to write response: %v", err)
	}
}
