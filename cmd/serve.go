package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/talent-cli/internal/fetcher"
	"github.com/sells-group/talent-cli/internal/ingest"
	"github.com/sells-group/talent-cli/internal/metrics"
	"github.com/sells-group/talent-cli/internal/model"
	"github.com/sells-group/talent-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the canonical dataset over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
		r.Use(rateLimiter(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.RateBurst))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/ingest", handleIngest(st))
		r.Get("/runs", handleListRuns(st))
		r.Get("/runs/{id}", handleGetRun(st))
		r.Get("/runs/{id}/metrics/{metric}", handleMetric(st))
		r.Get("/runs/{id}/quality", handleQuality(st))
		r.Get("/runs/{id}/explain/time-to-offer", handleExplain(st))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("server listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve: listen")
		}
		return nil
	},
}

// rateLimiter applies a shared token bucket across all requests.
func rateLimiter(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// handleIngest accepts a raw CSV body, ingests it, and persists the run.
func handleIngest(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "upload.csv"
		}

		doc, err := fetcher.ReadCSVFrom(name, r.Body, fetcher.Options{TrimHeaders: cfg.Ingest.TrimHeaders})
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid csv body"})
			return
		}

		result := ingest.Ingest(doc, ingest.Options{MaxRows: cfg.Ingest.MaxRows})

		run, err := st.CreateRun(r.Context(), result.SourceFile)
		if err != nil {
			zap.L().Error("ingest: create run", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create run failed"})
			return
		}
		if err := st.SaveResult(r.Context(), run.ID, result); err != nil {
			zap.L().Error("ingest: save result", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "save result failed"})
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"run_id": run.ID,
			"stats":  result.Stats,
		})
	}
}

func handleListRuns(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := st.ListRuns(r.Context(), store.RunFilter{Limit: 50})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
			return
		}
		// Results are heavy; list only the run envelopes.
		for i := range runs {
			runs[i].Result = nil
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

func handleGetRun(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := st.GetRun(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	}
}

// loadRunResult fetches a run's stored result or writes the error response.
func loadRunResult(st store.Store, w http.ResponseWriter, r *http.Request) (*model.IngestResult, bool) {
	run, err := st.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return nil, false
	}
	if run.Result == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "run has no stored result"})
		return nil, false
	}
	return run.Result, true
}

func handleMetric(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := loadRunResult(st, w, r)
		if !ok {
			return
		}
		name := chi.URLParam(r, "metric")
		filter := metrics.Filter{ReqID: r.URL.Query().Get("req")}
		result := metrics.Compute(name, res.Applications, res.Events, res.Capabilities, filter)
		writeJSON(w, http.StatusOK, result)
	}
}

func handleQuality(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := loadRunResult(st, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, res.QualityReport)
	}
}

func handleExplain(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := loadRunResult(st, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, metrics.ExplainTimeToOffer(res.Applications))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (0 = config default)")
	rootCmd.AddCommand(serveCmd)
}
