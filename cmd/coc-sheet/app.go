package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/alicebob/miniredis/v2"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/catalog"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/config"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/rpgtoolkit"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/i18n"
	characterorch "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/orchestrators/character"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/clock"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/idgen"
	redisclient "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/redis"
	characterrepo "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/repositories/character"
	draftrepo "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/repositories/character_draft"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/character"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/conversion"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/sheetio"
)

const pingTimeout = 5 * time.Second

// app is the wired character service and the resources behind it
type app struct {
	service    character.Service
	translator *i18n.Translator
	redis      redisclient.Client

	closers []func() error
}

// newApp connects the stores selected by cfg and builds the character
// service on top of them. With the sqlite backend, drafts live in an
// in-process redis that is discarded on close.
func newApp(ctx context.Context, cfg *config.Config) (a *app, err error) {
	a = &app{}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	cat, err := catalog.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load catalog")
	}
	translator, err := i18n.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load translations")
	}
	a.translator = translator

	clk := clock.New()

	if err := a.connectRedis(ctx, cfg.Storage); err != nil {
		return nil, err
	}

	characterRepo, err := a.characterRepository(ctx, cfg.Storage, clk)
	if err != nil {
		return nil, err
	}
	draftRepo, err := draftrepo.NewRedis(&draftrepo.RedisConfig{
		Client: a.redis,
		Clock:  clk,
		TTL:    cfg.Storage.DraftTTL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create draft repository")
	}

	eventBus := events.NewBus()
	eng, err := rpgtoolkit.NewAdapter(&rpgtoolkit.AdapterConfig{
		EventBus:   eventBus,
		DiceRoller: dice.DefaultRoller,
		Catalog:    cat,
		Clock:      clk,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create engine")
	}

	converter := conversion.NewDraftConverter(&conversion.DraftConverterConfig{Clock: clk})
	sheetIO, err := sheetio.New(&sheetio.Config{
		Converter:  converter,
		Translator: translator,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sheet service")
	}

	orch, err := characterorch.New(&characterorch.Config{
		CharacterRepo:      characterRepo,
		CharacterDraftRepo: draftRepo,
		Engine:             eng,
		Converter:          converter,
		SheetIO:            sheetIO,
		EventBus:           eventBus,
		IDGenerator:        idgen.NewUUID(idgen.PrefixDraft),
		Catalog:            cat,
		Translator:         translator,
		Clock:              clk,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character orchestrator")
	}
	a.service = orch

	slog.Debug("Application wired",
		"storage", cfg.Storage.Backend,
		"draft_ttl", cfg.Storage.DraftTTL,
	)
	return a, nil
}

func (a *app) connectRedis(ctx context.Context, storage config.StorageConfig) error {
	if storage.Backend == config.StorageSQLite {
		server, err := miniredis.Run()
		if err != nil {
			return errors.Wrap(err, "failed to start draft store")
		}
		a.closers = append(a.closers, func() error {
			server.Close()
			return nil
		})

		client, err := redisclient.NewClient(server.Addr(), nil)
		if err != nil {
			return err
		}
		a.redis = client
		a.closers = append(a.closers, client.Close)
		return nil
	}

	client, err := redisclient.NewFromURL(storage.RedisURL, nil)
	if err != nil {
		return err
	}
	a.redis = client
	a.closers = append(a.closers, client.Close)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return redisclient.Ping(pingCtx, client)
}

func (a *app) characterRepository(ctx context.Context, storage config.StorageConfig, clk clock.Clock) (characterrepo.Repository, error) {
	if storage.Backend != config.StorageSQLite {
		repo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{Client: a.redis, Clock: clk})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create character repository")
		}
		return repo, nil
	}

	db, err := characterrepo.OpenSQLite(storage.SQLitePath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	repo, err := characterrepo.NewSQLite(ctx, &characterrepo.SQLiteConfig{DB: db, Clock: clk})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character repository")
	}
	return repo, nil
}

// Close releases the stores in reverse order of opening
func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// open builds the app for a subcommand
func (o *rootOptions) open(ctx context.Context) (*app, error) {
	return newApp(ctx, o.cfg)
}
