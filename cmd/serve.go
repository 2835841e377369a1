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
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var (
	servePort int
	serveMode string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if serveMode == "" {
			serveMode = cfg.Pipeline.EnrichmentMode
		}
		if err := cfg.Validate(serveMode, false); err != nil {
			return err
		}

		env, err := initPipeline(ctx, serveMode, false)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newAPIRouter(env, cfg.Pipeline.BoardName),
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

// newAPIRouter builds the HTTP API. Pipeline runs are accepted and executed
// asynchronously; progress is tracked through the run store.
func newAPIRouter(env *pipelineEnv, boardName string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/pipeline", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			CompanyType string `json:"company_type"`
			Region      string `json:"region"`
			Count       int    `json:"count"`
			SendEmails  bool   `json:"send_emails"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		job := model.Job{CompanyType: body.CompanyType, Region: body.Region, Count: body.Count}
		if !job.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "company_type and region are required"})
			return
		}

		go func() {
			// Detached from the request context so the run outlives it.
			_, err := env.Pipeline.Run(context.Background(), job, pipeline.Options{
				SendEmails: body.SendEmails,
				BoardName:  boardName,
			})
			if err != nil {
				zap.L().Error("api pipeline run failed",
					zap.String("company_type", job.CompanyType),
					zap.Error(err),
				)
			}
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":       "accepted",
			"company_type": job.CompanyType,
			"region":       job.Region,
		})
	})

	r.Get("/api/runs", func(w http.ResponseWriter, req *http.Request) {
		runs, err := env.Store.ListRuns(req.Context(), store.RunFilter{
			Status: model.RunStatus(req.URL.Query().Get("status")),
		})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if runs == nil {
			runs = []model.Run{}
		}
		writeJSON(w, http.StatusOK, runs)
	})

	r.Get("/api/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		run, err := env.Store.GetRun(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveMode, "enrichment-mode", "", `enrichment mode: "hunter" or "scrape" (default from config)`)
	rootCmd.AddCommand(serveCmd)
}
