package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/codewithboateng/jreview/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the review HTTP API",
	Long:  `Start the /api/v1 HTTP API on server.addr (or --addr) until interrupted.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := setupEngine()
	if err != nil {
		return err
	}
	defer a.Close()

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	var limiter *rate.Limiter
	if a.cfg.Server.AnalyzeRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(a.cfg.Server.AnalyzeRPS), max(a.cfg.Server.AnalyzeBurst, 1))
	}
	s := &api.Server{
		DB:              a.db,
		UserStore:       a.db,
		Engine:          a.engine,
		Registry:        a.reg,
		Logger:          a.logger,
		AllowedOrigins:  a.cfg.Server.AllowedOrigins,
		SessionDuration: time.Duration(a.cfg.Server.SessionHours) * time.Hour,
		MaxSourceBytes:  a.cfg.Analysis.MaxSourceBytes,
		AnalyzeLimiter:  limiter,
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("api listening", "addr", addr, "rules", a.reg.Len())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("api shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
