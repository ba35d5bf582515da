package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Takuma-AI/openai-images-mcp/internal/http/handlers"
	"github.com/Takuma-AI/openai-images-mcp/internal/http/httpapi"
	"github.com/Takuma-AI/openai-images-mcp/internal/imagegen"
	"github.com/Takuma-AI/openai-images-mcp/internal/infra"
	"github.com/Takuma-AI/openai-images-mcp/internal/infra/credentials"
	"github.com/Takuma-AI/openai-images-mcp/internal/providers/openai"
	"github.com/Takuma-AI/openai-images-mcp/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	apiKey, err := credentials.NewStore(cfg.CredentialsFile).APIKey()
	if err != nil {
		logger.Fatal().Err(err).Msg("no OpenAI credential available")
	}

	client, err := openai.NewClient(openai.Options{
		APIKey:         apiKey,
		BaseURL:        cfg.OpenAIBaseURL,
		Model:          cfg.OpenAIModel,
		Logger:         &logger,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build OpenAI client")
	}

	store, err := storage.NewFileStore(cfg.ImagesDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare images directory")
	}
	downloader := storage.NewDownloader(&http.Client{Timeout: cfg.RequestTimeout}, cfg.MaxDownloadBytes)

	service, err := imagegen.NewService(imagegen.ServiceOptions{
		Generator:  client,
		Downloader: downloader,
		Store:      store,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build image service")
	}

	app := handlers.NewApp(service, cfg, logger)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
