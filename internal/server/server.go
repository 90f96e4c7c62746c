// internal/server/server.go
// Package server exposes the dashboard over HTTP: an HTML page driven by
// ECharts, a JSON view API and server-rendered chart images.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/mwiater/prefdash/internal/chart"
	"github.com/mwiater/prefdash/internal/dashboard"
	"github.com/mwiater/prefdash/internal/logging"
	"github.com/mwiater/prefdash/internal/session"
	"github.com/zeebo/xxh3"
)

// ErrResp is the error envelope of every JSON endpoint.
type ErrResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Options tune rendering defaults.
type Options struct {
	// Stacked is used when a request does not say otherwise.
	Stacked     bool
	ChartWidth  int
	ChartHeight int
}

// Server serves one Dashboard to many isolated sessions.
type Server struct {
	dash  *dashboard.Dashboard
	store session.Store
	opts  Options
}

// New creates a Server. A nil store disables selection persistence.
func New(dash *dashboard.Dashboard, store session.Store, opts Options) *Server {
	if store == nil {
		store = session.Nop{}
	}
	return &Server{dash: dash, store: store, opts: opts}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/presets", s.handlePresets)
	mux.HandleFunc("GET /api/views/{pipeline}", s.handleView)
	mux.HandleFunc("GET /charts/{pipeline}/{index}", s.handleChart)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Printf("shutting down %s", addr)
		return srv.Shutdown(shutdownCtx)
	}
}

type presetsResponse struct {
	OK      bool               `json:"ok"`
	Presets []dashboard.Preset `json:"presets"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSONCached(w, r, http.StatusOK, presetsResponse{OK: true, Presets: s.dash.Presets().List()})
}

type viewResponse struct {
	OK    bool                     `json:"ok"`
	View  dashboard.View           `json:"view"`
	State dashboard.SelectionState `json:"state"`
	// ECharts is aligned with View.Panels; panels without a chart are null.
	ECharts []*chart.EChartsOption `json:"echarts"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	view, state, err := s.render(w, r, r.PathValue("pipeline"))
	if err != nil {
		writeError(w, err)
		return
	}
	resp := viewResponse{OK: true, View: view, State: state, ECharts: make([]*chart.EChartsOption, len(view.Panels))}
	for i, p := range view.Panels {
		if p.Chart != nil {
			opt := chart.ECharts(*p.Chart)
			resp.ECharts[i] = &opt
		}
	}
	writeJSONCached(w, r, http.StatusOK, resp)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		writeJSON(w, http.StatusBadRequest, ErrResp{OK: false, Error: "chart index must be a non-negative integer"})
		return
	}
	format, err := chart.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrResp{OK: false, Error: err.Error()})
		return
	}

	view, _, err := s.render(w, r, r.PathValue("pipeline"))
	if err != nil {
		writeError(w, err)
		return
	}
	charts := view.Charts()
	if index >= len(charts) {
		msg := view.Message
		if msg == "" {
			msg = fmt.Sprintf("chart %d not found (%d available)", index, len(charts))
		}
		writeJSON(w, http.StatusNotFound, ErrResp{OK: false, Error: msg})
		return
	}

	var buf bytes.Buffer
	if err := chart.Render(charts[index], format, s.opts.ChartWidth, s.opts.ChartHeight, &buf); err != nil {
		logging.LogEvent("[HTTP] chart render error: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrResp{OK: false, Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	writeCached(w, r, http.StatusOK, buf.Bytes())
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ErrResp{OK: false, Error: err.Error()})
}

func statusFor(err error) int {
	var bad badRequest
	if errors.Is(err, dashboard.ErrUnknownPipeline) || errors.As(err, &bad) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONCached writes v with an ETag and honours If-None-Match.
func writeJSONCached(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrResp{OK: false, Error: err.Error()})
		return
	}
	body = append(body, '\n')
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	writeCached(w, r, status, body)
}

func writeCached(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	tag := etag(body)
	w.Header().Set("ETag", tag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func etag(body []byte) string {
	return fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
}
