package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Unpic"
	"Unpic/internal/api/handlers/imagecdn"
	"Unpic/internal/api/middleware"
	"Unpic/internal/api/routes"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	addr           string
	rateLimit      int
	allowedOrigins []string
}

func newServeCommand(service unpic.Service) *cobra.Command {
	var flags serveFlags
	command := &cobra.Command{
		Use:   "serve",
		Short: "Serve the URL rewriting API over HTTP",
		Long: `
Serves GET /transform, /img, /parse and /canonical. Query parameters
match the transform command: url, cdn, fallback, width, height, format
and quality, plus op.<key> for extra operations and opt.<key> for
provider options.
`,
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, service, flags)
		},
	}
	command.Flags().StringVar(&flags.addr, "addr", ":8080", "Address to listen on")
	command.Flags().IntVar(&flags.rateLimit, "rate-limit", 100, "Requests per minute per client, 0 to disable")
	command.Flags().StringSliceVar(&flags.allowedOrigins, "cors-origins", []string{"*"}, "Origins allowed to call the API from a browser")
	return command
}

func newRouter(service unpic.Service, rateLimiter *middleware.RateLimiter, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(corsMiddleware(allowedOrigins))
	if rateLimiter != nil {
		r.Use(rateLimiter.Middleware)
	}

	routes.RegisterImageCDNRoutes(r, imagecdn.NewHandler(service))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return r
}

// corsMiddleware allows read-only cross-origin calls. The API holds no
// credentials.
func corsMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300, // 5 minutes
	})
}

func serve(ctx context.Context, service unpic.Service, flags serveFlags) error {
	var rateLimiter *middleware.RateLimiter
	if flags.rateLimit > 0 {
		rateLimiter = middleware.NewRateLimiter(flags.rateLimit, time.Minute)
		defer rateLimiter.Stop()
	}

	server := &http.Server{
		Addr:              flags.addr,
		Handler:           newRouter(service, rateLimiter, flags.allowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[IMAGE-CDN] server starting",
			"addr", flags.addr,
			"rate_limit", flags.rateLimit,
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("[IMAGE-CDN] server shutting down")
	return server.Shutdown(shutdownCtx)
}
