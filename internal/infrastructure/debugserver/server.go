// Package debugserver exposes the orchestrator and its metrics over HTTP.
//
//	GET  /metrics                  Prometheus metrics
//	GET  /debug/state              current state, scene and pending pre-builds
//	POST /debug/actions/{action}   dispatch an action (same guard as the GUI)
package debugserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/younwookim/stagehand/internal/application/orchestrator"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/state"
)

// Controller is the orchestrator surface exposed over HTTP
type Controller interface {
	State() state.ApplicationState
	Current() scene.Scene
	InFlight() bool
	Pending() []state.ApplicationState
	Dispatch(action state.Action) error
}

// StateResponse is the body of GET /debug/state
type StateResponse struct {
	State    string   `json:"state"`
	SceneID  string   `json:"scene_id,omitempty"`
	InFlight bool     `json:"in_flight"`
	Pending  []string `json:"pending"`
	Actions  []string `json:"actions"` // actions with an edge from State
}

// ActionResponse is the body of POST /debug/actions/{action}
type ActionResponse struct {
	Action   string `json:"action"`
	Accepted bool   `json:"accepted"`
	Error    string `json:"error,omitempty"`
}

type handler struct {
	ctl    Controller
	logger *log.Logger
}

// NewHandler creates the debug router
func NewHandler(ctl Controller, gatherer prometheus.Gatherer, logger *log.Logger) http.Handler {
	h := &handler{ctl: ctl, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Route("/debug", func(r chi.Router) {
		r.Get("/state", h.state)
		r.Post("/actions/{action}", h.action)
	})
	return r
}

func (h *handler) state(w http.ResponseWriter, r *http.Request) {
	cur := h.ctl.State()
	resp := StateResponse{
		State:    cur.String(),
		InFlight: h.ctl.InFlight(),
		Pending:  []string{},
		Actions:  []string{},
	}
	if s := h.ctl.Current(); s != nil {
		resp.SceneID = s.ID()
	}
	for _, st := range h.ctl.Pending() {
		resp.Pending = append(resp.Pending, st.String())
	}
	for _, e := range state.Edges() {
		if e.From == cur {
			resp.Actions = append(resp.Actions, e.Action.String())
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) action(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "action")
	a, err := state.ParseAction(name)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, ActionResponse{Action: name, Error: err.Error()})
		return
	}

	err = h.ctl.Dispatch(a)
	resp := ActionResponse{Action: a.String(), Accepted: err == nil}
	status := http.StatusAccepted
	switch {
	case err == nil:
	case errors.Is(err, orchestrator.ErrTransitionRejected):
		status = http.StatusConflict
	case errors.Is(err, orchestrator.ErrIllegalTransition):
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusServiceUnavailable
	}
	if err != nil {
		resp.Error = err.Error()
	}
	h.logger.Info("debug action", "action", a, "status", status)
	h.writeJSON(w, status, resp)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("debug response encode failed", "err", err)
	}
}

// Server serves the debug handler until its context is cancelled
type Server struct {
	srv    *http.Server
	logger *log.Logger
}

// NewServer creates a server for handler on addr
func NewServer(addr string, handler http.Handler, logger *log.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Run listens and serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("debug server listen: %w", err)
	}
	s.logger.Info("debug server listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
