// Command coach-server runs the interview coaching backend: document
// uploads over REST and real-time audio coaching over a websocket.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/store"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/suggest"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/transcribe"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/config"
	gatewayserver "github.com/Engineernoob/ai-interview-buddy/pkg/gateway/server"
)

type serverDeps struct {
	loadConfig   func() (config.Config, error)
	signalNotify func(chan<- os.Signal, ...os.Signal)
	signalStop   func(chan<- os.Signal)
}

func defaultServerDeps() serverDeps {
	return serverDeps{
		loadConfig: config.LoadFromEnv,
		signalNotify: func(c chan<- os.Signal, sig ...os.Signal) {
			signal.Notify(c, sig...)
		},
		signalStop: signal.Stop,
	}
}

func buildHTTPServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// buildStore selects postgres when a database url is configured, the
// in-memory store otherwise.
func buildStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.DocumentStore, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("document store", "backend", "memory")
		return store.NewMemory(), nil
	}
	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	logger.Info("document store", "backend", "postgres")
	return pg, nil
}

func buildTranscriber(cfg config.Config, logger *slog.Logger) transcribe.Transcriber {
	if cfg.WhisperURL == "" {
		logger.Info("transcriber", "backend", "mock")
		return transcribe.Mock{}
	}
	logger.Info("transcriber", "backend", "whisper", "url", cfg.WhisperURL)
	return transcribe.NewWhisperClient(cfg.WhisperURL, nil, logger)
}

// buildGenerator picks the suggestion backend: gemini when an API key is
// set, ollama when a base url is set, nil (canned responses) otherwise.
func buildGenerator(ctx context.Context, cfg config.Config, logger *slog.Logger) (suggest.Generator, error) {
	switch {
	case cfg.GeminiAPIKey != "":
		gen, err := suggest.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		logger.Info("suggestion backend", "backend", "gemini", "model", cfg.GeminiModel)
		return gen, nil
	case cfg.OllamaURL != "":
		logger.Info("suggestion backend", "backend", "ollama", "model", cfg.OllamaModel)
		return suggest.NewOllama(cfg.OllamaURL, cfg.OllamaModel, nil, logger), nil
	default:
		logger.Info("suggestion backend", "backend", "canned")
		return nil, nil
	}
}

func runServer(ctx context.Context, logger *slog.Logger, deps serverDeps) error {
	if deps.loadConfig == nil {
		return errors.New("missing loadConfig dependency")
	}
	if deps.signalNotify == nil || deps.signalStop == nil {
		return errors.New("missing signal dependency")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := deps.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	docStore, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer docStore.Close()

	generator, err := buildGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	gw := gatewayserver.New(cfg, gatewayserver.Dependencies{
		Store:       docStore,
		Transcriber: buildTranscriber(cfg, logger),
		Generator:   generator,
		Logger:      logger,
	})
	httpSrv := buildHTTPServer(cfg, gw.Handler())

	logger.Info("starting coach server", "addr", cfg.Addr)

	listenErrCh := make(chan error, 1)
	go func() {
		err := httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErrCh <- err
			return
		}
		listenErrCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	deps.signalNotify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer deps.signalStop(sigCh)

	select {
	case err := <-listenErrCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	gw.Lifecycle().SetDraining(true)
	warned := gw.Sessions().WarnAll("Server is shutting down")
	if warned > 0 {
		logger.Info("warned live sessions", "count", warned)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer waitCancel()
	if !gw.Sessions().Wait(waitCtx) {
		canceled := gw.Sessions().CancelAll()
		logger.Warn("canceled live sessions after grace period", "count", canceled)
	}

	if err := <-listenErrCh; err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info("coach server stopped")
	return nil
}

func runMain(ctx context.Context, stderr io.Writer, deps serverDeps) int {
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(stderr, nil))

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "coach-server: load .env: %v\n", err)
		return 1
	}

	if err := runServer(ctx, logger, deps); err != nil {
		fmt.Fprintf(stderr, "coach-server: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(runMain(context.Background(), os.Stderr, defaultServerDeps()))
}
