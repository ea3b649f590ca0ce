// Package ioweb serves dashboard data as a JSON HTTP API.
package ioweb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pazviva/pvdash/internal/iocache"
	"github.com/pazviva/pvdash/internal/ioreport"
	"github.com/pazviva/pvdash/pkg/dataset"
	"github.com/pazviva/pvdash/pkg/peace"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API of the dashboard.
type Server struct {
	cache  *iocache.SnapshotCache
	port   int
	topN   int
	router *mux.Router
}

// New creates a Server reading snapshots from cache.
func New(cache *iocache.SnapshotCache, port, topN int) *Server {
	s := &Server{cache: cache, port: port, topN: topN}
	s.router = s.newRouter()
	return s
}

func (s *Server) newRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(metricsMiddleware)

	r.HandleFunc("/health", s.getHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/periods", s.getPeriods).Methods("GET")
	api.HandleFunc("/report", s.getReport).Methods("GET")
	api.HandleFunc("/report/{year:[0-9]{4}}/{month:[0-9]{1,2}}", s.getReport).
		Methods("GET")
	api.HandleFunc("/ranking", s.getRanking).Methods("GET")
	api.HandleFunc("/ranking/{year:[0-9]{4}}/{month:[0-9]{1,2}}", s.getRanking).
		Methods("GET")
	api.HandleFunc("/peacekeepers", s.getPeacekeepers).Methods("GET")
	api.HandleFunc("/evolution", s.getEvolution).Methods("GET")
	api.HandleFunc("/map", s.getMap).Methods("GET")
	api.HandleFunc("/refresh", s.postRefresh).Methods("POST")

	return r
}

// Handler returns the router wrapped with access logging.
func (s *Server) Handler() http.Handler {
	return handlers.LoggingHandler(slogWriter{}, s.router)
}

// Run serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", s.port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return WebServerError(s.port, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("Stopping HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (dataset.Snapshot, bool) {
	snap, err := s.cache.Get(r.Context())
	if err != nil {
		datasetErrors.Inc()
		slog.Error("Cannot load dataset", "error", err)
		writeError(w, http.StatusServiceUnavailable, "dataset is not available")
		return snap, false
	}
	return snap, true
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) getPeriods(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, ioreport.NewPeriodsView(peace.Periods(snap.Metrics)))
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	period, ok := periodFromRequest(w, r, snap)
	if !ok {
		return
	}
	writeJSON(w, r, ioreport.NewReportView(snap.Report(period)))
}

func (s *Server) getRanking(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	period, ok := periodFromRequest(w, r, snap)
	if !ok {
		return
	}

	topN := s.topN
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		topN = n
	}
	rows := snap.Ranking(period)
	writeJSON(w, r, ioreport.NewRankingView(period, rows, topN))
}

func (s *Server) getPeacekeepers(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	sum := peace.SummarizeEvents(snap.Events, snap.Countries)
	writeJSON(w, r, ioreport.NewPeacekeepersView(sum))
}

func (s *Server) getEvolution(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	scope := strings.ToUpper(strings.TrimSpace(q.Get("country")))
	yearly, _ := strconv.ParseBool(q.Get("yearly"))

	var view ioreport.EvolutionView
	if yearly {
		view = ioreport.NewYearlyView(scope, peace.YearlySeries(snap.Metrics, scope))
	} else {
		view = ioreport.NewEvolutionView(scope, peace.EvolutionSeries(snap.Metrics, scope))
	}
	writeJSON(w, r, view)
}

func (s *Server) getMap(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	method, err := peace.ParseMethod(q.Get("method"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sel := peace.MapSelection{Method: method}
	if sel.Year, ok = intParam(w, q.Get("year"), "year", 0, 9999); !ok {
		return
	}
	if sel.Month, ok = intParam(w, q.Get("month"), "month", 0, 12); !ok {
		return
	}

	data := peace.AggregateByCountry(snap.Metrics, snap.Countries, sel)
	writeJSON(w, r, ioreport.NewMapView(data))
}

func (s *Server) postRefresh(w http.ResponseWriter, r *http.Request) {
	s.cache.Invalidate()
	if _, ok := s.snapshot(w, r); !ok {
		return
	}
	writeJSON(w, r, map[string]string{"status": "refreshed"})
}

// periodFromRequest reads year and month route variables. Without them
// the latest period of the dataset is used.
func periodFromRequest(
	w http.ResponseWriter,
	r *http.Request,
	snap dataset.Snapshot,
) (peace.PeriodKey, bool) {
	vars := mux.Vars(r)
	if vars["year"] == "" {
		p, ok := snap.LatestPeriod()
		if !ok {
			writeError(w, http.StatusNotFound, "dataset has no periods")
		}
		return p, ok
	}

	p, err := peace.ParsePeriod(vars["year"] + "-" + vars["month"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return p, false
	}
	return p, true
}

func intParam(w http.ResponseWriter, s, name string, lo, hi int) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("%s must be an integer between %d and %d", name, lo, hi))
		return 0, false
	}
	return n, true
}

// writeJSON encodes v and answers 304 when the client already has the
// same content.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	enc := gnfmt.GNjson{}
	bs, err := enc.Encode(v)
	if err != nil {
		slog.Error("Cannot encode response", "error", err)
		writeError(w, http.StatusInternalServerError, "cannot encode response")
		return
	}

	etag := `"` + gnuuid.New(string(bs)).String() + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		notModifiedTotal.Inc()
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(bs)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	enc := gnfmt.GNjson{}
	bs, _ := enc.Encode(map[string]string{"error": msg})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(bs)
}
