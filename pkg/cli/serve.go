package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/memora-app/memora/pkg/cli/config"
	httpctrl "github.com/memora-app/memora/pkg/controller/http"
	"github.com/memora-app/memora/pkg/usecase"
	"github.com/memora-app/memora/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var appCfg config.App
	var authCfg config.Auth
	var remoteCfg config.Remote
	var vectorCfg config.Vector
	var graphCfg config.Graph
	var blobCfg config.Blob
	var embedCfg config.Embed

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("MEMORA_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, remoteCfg.Flags()...)
	flags = append(flags, vectorCfg.Flags()...)
	flags = append(flags, graphCfg.Flags()...)
	flags = append(flags, blobCfg.Flags()...)
	flags = append(flags, embedCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			tuning, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load tuning configuration")
			}

			policy := remoteCfg.Policy()

			// Initialize backing stores based on backend type
			vectorIdx, err := vectorCfg.Configure(ctx, policy)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize vector index")
			}
			defer func() {
				if err := vectorIdx.Close(); err != nil {
					logging.Default().Error("failed to close vector index", "error", err.Error())
				}
			}()

			graphStore, err := graphCfg.Configure(ctx, policy)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize graph store")
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := graphStore.Close(closeCtx); err != nil {
					logging.Default().Error("failed to close graph store", "error", err.Error())
				}
			}()

			blobStore, err := blobCfg.Configure(ctx, policy)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize media storage")
			}
			defer func() {
				if err := blobStore.Close(); err != nil {
					logging.Default().Error("failed to close media storage", "error", err.Error())
				}
			}()

			embedder, err := embedCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize embedder")
			}

			// Configure authentication
			verifier, err := authCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}

			uc := usecase.New(vectorIdx, graphStore, blobStore, embedder,
				usecase.WithSearchTopK(tuning.SearchTopK),
				usecase.WithMoodMapLimit(tuning.MoodMapLimit),
			)

			srv := httpctrl.New(uc,
				httpctrl.WithVerifier(verifier),
				httpctrl.WithCORSOrigins(tuning.CORSOrigins),
				httpctrl.WithMaxUploadSize(tuning.MaxUploadSizeBytes()),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           srv,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
