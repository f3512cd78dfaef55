// Package server exposes a project over a small JSON API for
// interactive inspection of the estimation and power results.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/runofriver/hydroflow/pkg/pipeline"
	"github.com/runofriver/hydroflow/pkg/validation"
)

// Server is the local development server for one plant project.
type Server struct {
	projectPath string
	port        int
	logger      *logrus.Logger

	mu sync.Mutex
	pl *pipeline.Pipeline
}

// New creates a server for the given project directory.
func New(projectPath string, port int) *Server {
	return &Server{
		projectPath: projectPath,
		port:        port,
		logger:      logrus.StandardLogger(),
	}
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/plant", s.handlePlant)
	mux.HandleFunc("GET /api/power", s.handlePower)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("POST /api/run", s.handleRun)
	mux.HandleFunc("GET /", s.handleIndex)

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Infof("hydroflow server starting on http://localhost%s", addr)
	s.logger.Infof("project: %s", s.projectPath)

	return http.ListenAndServe(addr, mux)
}

// run loads the project and executes the pipeline, caching the result
// until the next POST /api/run.
func (s *Server) run(force bool) (*pipeline.Pipeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pl != nil && !force {
		return s.pl, nil
	}
	pl, err := pipeline.LoadProject(s.projectPath)
	if err != nil {
		return nil, err
	}
	if _, err := pl.Run(); err != nil {
		return nil, err
	}
	s.pl = pl
	return pl, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>hydroflow</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>hydroflow</h1>
<p>API: <code>/api/plant</code>, <code>/api/power</code>, <code>/api/validation</code>, <code>POST /api/run</code></p>
</div>
</body></html>`)
}

func (s *Server) handlePlant(w http.ResponseWriter, _ *http.Request) {
	pl, err := s.run(false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, pl.Plant)
}

func (s *Server) handlePower(w http.ResponseWriter, _ *http.Request) {
	pl, err := s.run(false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, pl.Output)
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	spec, err := pipelineSpec(s.projectPath)
	if err != nil {
		writeError(w, err)
		return
	}

	report := validation.ValidateSpec(&spec.Spec)
	report.Merge(validation.ValidateFeasibility(&spec.Spec, spec.History != nil))
	if report.Valid {
		if pl, err := s.run(false); err == nil {
			report.Merge(validation.ValidateResolved(pl.Plant))
		}
	}
	writeJSON(w, report)
}

func (s *Server) handleRun(w http.ResponseWriter, _ *http.Request) {
	pl, err := s.run(true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"plant":   pl.Plant,
		"samples": pl.Output.Len(),
	})
}

func pipelineSpec(dir string) (*pipeline.Pipeline, error) {
	return pipeline.LoadProject(dir)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
