package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shelfsnap/shelfsnap/internal/detect"
	"github.com/shelfsnap/shelfsnap/internal/handlers"
	"github.com/shelfsnap/shelfsnap/internal/library"
	"github.com/shelfsnap/shelfsnap/internal/queue"
	"github.com/shelfsnap/shelfsnap/internal/scan"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string
	var provider string
	var model string
	var grid string
	var policyPath string
	var validationRPM int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scan-queue HTTP API",
		Long: `Starts the shelfsnap HTTP API on the specified port.

Uploaded bookshelf photos are queued and scanned one at a time; progress is
visible at /api/scans and finished book lists at /api/library.`,
		Example: `  # Start server on default port 8888
  shelfsnap serve

  # Start server on custom port with Gemini and sectioned scanning
  shelfsnap serve --port 3000 --provider gemini --grid 2x2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gridX, gridY, err := parseGrid(grid)
			if err != nil {
				return err
			}

			policy := scan.DefaultPolicy()
			if policyPath != "" {
				policy, err = scan.LoadPolicy(policyPath)
				if err != nil {
					return err
				}
			}

			detector, err := detect.NewClient(provider, model)
			if err != nil {
				return err
			}
			validator, err := detect.NewSecondaryValidator(provider, model, validationRPM)
			if err != nil {
				return err
			}

			store := library.NewMemoryStore()
			pipeline := scan.NewPipeline(policy, detector, validator)
			orchestrator := queue.New(cmd.Context(), pipeline, store, queue.Options{
				GridX: gridX,
				GridY: gridY,
			})
			handler := handlers.New(orchestrator, store)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/scans", handler.HandleScans)
			mux.HandleFunc("/api/scans/", handler.HandleScanDetail)
			mux.HandleFunc("/api/library", handler.HandleLibrary)
			mux.HandleFunc("/api/library/", handler.HandleLibraryDetail)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Shelfsnap API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: gemini, openai, or ollama (default from SHELFSNAP_PROVIDER)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (default per provider)")
	cmd.Flags().StringVar(&grid, "grid", "1x1", "Section grid per scan, e.g. 2x2 or 4x3")
	cmd.Flags().StringVar(&policyPath, "policy", "", "Path to a YAML policy file overriding pipeline thresholds")
	cmd.Flags().IntVar(&validationRPM, "validation-rpm", 30, "Max secondary-validation requests per minute")

	return cmd
}
