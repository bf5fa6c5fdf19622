package usecases

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ragserve/ragserve/internal/domain/ports"
	"github.com/rs/zerolog"
)

// SeedUseCase loads documents from a seed directory into the knowledge store
// at startup and, optionally, re-ingests files as they change.
type SeedUseCase struct {
	loader ports.DocumentLoader
	add    *AddUseCase
	log    zerolog.Logger
}

// NewSeedUseCase creates a SeedUseCase with injected dependencies.
func NewSeedUseCase(loader ports.DocumentLoader, add *AddUseCase, log zerolog.Logger) *SeedUseCase {
	return &SeedUseCase{
		loader: loader,
		add:    add,
		log:    log,
	}
}

// Seed walks dir and ingests every supported file. A file that fails to load
// or insert is logged and skipped; seeding never aborts the whole startup.
func (uc *SeedUseCase) Seed(ctx context.Context, dir string) error {
	if dir == "" {
		return nil
	}

	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !uc.supported(path) {
			return nil
		}
		if uc.ingestFile(ctx, path) {
			count++
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.Info().Str("dir", dir).Int("documents", count).Msg("seed ingestion complete")
	return nil
}

// Watch consumes watcher events for dir and re-ingests created or modified
// files. Blocks until ctx is cancelled or the event channel closes.
func (uc *SeedUseCase) Watch(ctx context.Context, dir string, watcher ports.FileWatcher) error {
	events, err := watcher.Watch(ctx, dir)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Operation == ports.FileDeleted {
				continue
			}
			uc.ingestFile(ctx, event.Path)
		}
	}
}

func (uc *SeedUseCase) ingestFile(ctx context.Context, path string) bool {
	text, err := uc.loader.Load(ctx, path)
	if err != nil {
		uc.log.Warn().Err(err).Str("path", path).Msg("skipping seed file: load failed")
		return false
	}
	result, err := uc.add.Add(ctx, text)
	if err != nil {
		uc.log.Warn().Err(err).Str("path", path).Msg("skipping seed file: insert failed")
		return false
	}
	uc.log.Debug().Str("path", path).Str("id", result.ID).Msg("seed file ingested")
	return true
}

func (uc *SeedUseCase) supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range uc.loader.SupportedExtensions() {
		if ext == e {
			return true
		}
	}
	return false
}
