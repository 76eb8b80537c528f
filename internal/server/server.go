// Package server exposes the analysis pipeline over HTTP: clients upload
// clinical exports and simulation snapshots, trigger an analysis over them,
// and fetch stored result documents. Every reported number comes from the
// real pipeline; the server never fabricates simulation outcomes.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Config holds the server's directories and limits.
type Config struct {
	UploadDir  string
	ResultsDir string
	// MaxUploadBytes caps one upload request. Defaults to 100 MiB.
	MaxUploadBytes int64
	// MaxGridDim caps declared snapshot dimensions. Always enforced;
	// uploads are untrusted input.
	MaxGridDim int
}

// Server handles the upload/analyze/results API.
type Server struct {
	cfg    Config
	logger *slog.Logger
}

// New validates the configuration, creates the working directories, and
// returns a ready server.
func New(logger *slog.Logger, cfg Config) (*Server, error) {
	if cfg.UploadDir == "" || cfg.ResultsDir == "" {
		return nil, fmt.Errorf("server: upload and results directories are required")
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 100 << 20
	}
	if cfg.MaxGridDim <= 0 {
		return nil, fmt.Errorf("server: MaxGridDim must be positive")
	}
	for _, dir := range []string{cfg.UploadDir, cfg.ResultsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
	}
	return &Server{cfg: cfg, logger: logger}, nil
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/results/{name}", s.handleResults)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return mux
}

// ListenAndServe runs the server on the given port until the listener
// fails.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.logger.Info("Upload server starting.", "address", fmt.Sprintf("http://localhost%s/api/health", addr))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpServer.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr)
	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name != filepath.Base(name) {
		writeError(s.logger, w, http.StatusBadRequest, "invalid results name")
		return
	}
	path := filepath.Join(s.cfg.ResultsDir, name)
	if _, err := os.Stat(path); err != nil {
		writeError(s.logger, w, http.StatusNotFound, "results file not found")
		return
	}
	http.ServeFile(w, r, path)
}
