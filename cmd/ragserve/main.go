// Command ragserve runs the retrieval-augmented query service.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ragserve/ragserve/internal/adapters/embedding"
	"github.com/ragserve/ragserve/internal/adapters/filewatcher"
	"github.com/ragserve/ragserve/internal/adapters/llm"
	"github.com/ragserve/ragserve/internal/adapters/loader"
	"github.com/ragserve/ragserve/internal/adapters/vectordb"
	"github.com/ragserve/ragserve/internal/config"
	"github.com/ragserve/ragserve/internal/domain/ports"
	"github.com/ragserve/ragserve/internal/domain/usecases"
	httpserver "github.com/ragserve/ragserve/internal/infrastructure/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("ragserve exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := newStore(cfg, log)
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	defer store.Close()

	embedder, err := embedding.NewOllamaAdapter(cfg.Generator.Host, cfg.Generator.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("creating embedding adapter: %w", err)
	}

	generator, err := newGenerator(cfg, log)
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}

	queryUC := usecases.NewQueryUseCase(embedder, store, generator, cfg.Retrieval.TopK, cfg.Retrieval.Timeout)
	addUC := usecases.NewAddUseCase(embedder, store, cfg.Retrieval.Timeout)

	if cfg.Seed.Dir != "" {
		if err := seedDocuments(ctx, cfg, addUC, log); err != nil {
			// Seeding is best-effort; the service still answers queries.
			log.Warn().Err(err).Str("dir", cfg.Seed.Dir).Msg("seed ingestion failed")
		}
	}

	server := httpserver.NewServer(queryUC, addUC, ":"+cfg.Server.Port, log)
	return server.Start(ctx)
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(parsed).With().Timestamp().Logger()
}

// newStore selects the vector store backend. Qdrant is the default;
// sqlite and memory remain available for single-node and test setups.
func newStore(cfg *config.Config, log zerolog.Logger) (ports.VectorStore, error) {
	switch cfg.Store.Backend {
	case "qdrant":
		log.Info().
			Str("host", cfg.Store.QdrantHost).
			Int("port", cfg.Store.QdrantPort).
			Str("collection", cfg.Store.Collection).
			Msg("using qdrant vector store")
		return vectordb.NewQdrantStore(vectordb.QdrantConfig{
			Host:                   cfg.Store.QdrantHost,
			Port:                   cfg.Store.QdrantPort,
			APIKey:                 cfg.Store.QdrantAPIKey,
			Collection:             cfg.Store.Collection,
			Dimension:              cfg.Store.VectorDim,
			SkipCompatibilityCheck: cfg.Store.TelemetryDisabled,
		})
	case "sqlite":
		log.Info().Str("path", cfg.Store.DataPath).Msg("using sqlite vector store")
		return vectordb.NewSQLiteStore(cfg.Store.DataPath)
	case "memory":
		log.Info().Msg("using in-memory vector store")
		return vectordb.NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.Store.Backend)
	}
}

// newGenerator picks the generation strategy once at startup: the
// passthrough variant echoes retrieved context verbatim and never
// touches the model server.
func newGenerator(cfg *config.Config, log zerolog.Logger) (ports.Generator, error) {
	if cfg.Generator.Mock {
		log.Info().Msg("mock generation enabled: answers echo retrieved context")
		return llm.NewPassthroughGenerator(), nil
	}
	log.Info().Str("host", cfg.Generator.Host).Str("model", cfg.Generator.Model).Msg("using ollama generator")
	return llm.NewOllamaGenerator(cfg.Generator.Host, cfg.Generator.Model)
}

func seedDocuments(ctx context.Context, cfg *config.Config, addUC *usecases.AddUseCase, log zerolog.Logger) error {
	textLoader := loader.NewTextLoader()
	seedUC := usecases.NewSeedUseCase(textLoader, addUC, log)

	if err := seedUC.Seed(ctx, cfg.Seed.Dir); err != nil {
		return err
	}

	if cfg.Seed.Watch {
		watcher, err := filewatcher.NewFSNotifyWatcher(textLoader.SupportedExtensions(), log)
		if err != nil {
			return fmt.Errorf("creating seed watcher: %w", err)
		}
		go func() {
			defer watcher.Stop()
			if err := seedUC.Watch(ctx, cfg.Seed.Dir, watcher); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Msg("seed watcher stopped")
			}
		}()
		log.Info().Str("dir", cfg.Seed.Dir).Msg("watching seed directory")
	}

	return nil
}
