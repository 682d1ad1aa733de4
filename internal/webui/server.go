// Package webui exposes a minimal HTTP server over a finished pipeline run:
// an HTML summary page plus machine-friendly JSON and CSV endpoints.
//
// Routes:
//
//	GET /             → HTML run summary with links to output tables
//	GET /api/summary  → run summary as JSON
//	GET /tables/NAME  → one output table as text/csv
package webui

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/h0157/supply-chain-risk-dashboard/internal/pipeline"
)

// Config controls server startup.
type Config struct {
	Addr string

	// TableDir is the directory holding the run's CSV outputs. Table serving
	// is disabled when empty (e.g. when a database backend was used).
	TableDir string
}

// Server wraps http.Server for convenience.
type Server struct {
	cfg     Config
	summary *pipeline.Summary
	mux     *http.ServeMux
	tmpl    *template.Template
}

// NewServer constructs a Server over the given run summary.
func NewServer(cfg Config, summary *pipeline.Summary) *Server {
	s := &Server{
		cfg:     cfg,
		summary: summary,
		mux:     http.NewServeMux(),
		tmpl:    template.Must(template.New("index").Parse(indexHTML)),
	}
	s.routes()
	return s
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	log.Printf("webui: listening on %s", s.cfg.Addr)
	return http.ListenAndServe(s.cfg.Addr, s.mux)
}

// Handler returns the route mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/api/summary", s.handleAPISummary)
	s.mux.HandleFunc("/tables/", s.handleTable)
}

// handleIndex renders the run summary page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := s.tmpl.Execute(w, s.summary); err != nil {
		log.Println("webui: template error:", err)
	}
}

// handleAPISummary returns the summary as JSON so dashboards can poll it.
func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.summary); err != nil {
		log.Println("webui: encode summary:", err)
	}
}

// handleTable streams one output CSV. Table names are restricted to the
// names the run actually produced, which also keeps path traversal out.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	if s.cfg.TableDir == "" {
		http.Error(w, "table serving disabled", http.StatusNotFound)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/tables/")
	if !s.knownTable(name) {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(filepath.Join(s.cfg.TableDir, name+".csv"))
	if err != nil {
		http.Error(w, fmt.Sprintf("open table %s: %v", name, err), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if _, err := io.Copy(w, f); err != nil {
		log.Println("webui: stream table:", err)
	}
}

func (s *Server) knownTable(name string) bool {
	for _, t := range s.summary.Tables {
		if t == name {
			return true
		}
	}
	return false
}

//go:embed index.tmpl.html
var indexHTML string
