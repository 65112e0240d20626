package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/auth"
	"github.com/brick/gearlist/internal/config"
	"github.com/brick/gearlist/internal/document"
	"github.com/brick/gearlist/internal/domain/catalog"
	"github.com/brick/gearlist/internal/notify"
	"github.com/brick/gearlist/internal/repository/cache"
	"github.com/brick/gearlist/internal/repository/documents"
	"github.com/brick/gearlist/internal/repository/kv"
	"github.com/brick/gearlist/internal/repository/mongodb"
	"github.com/brick/gearlist/internal/repository/remote"
	"github.com/brick/gearlist/internal/repository/sheets"
	adminsvc "github.com/brick/gearlist/internal/service/admin"
	checklistsvc "github.com/brick/gearlist/internal/service/checklist"
	historysvc "github.com/brick/gearlist/internal/service/history"
	"github.com/brick/gearlist/pkg/clients/supabase"
	"github.com/brick/gearlist/pkg/logger"
)

// app holds the wired services shared by every command.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	inbox   *notify.Inbox
	gate    *auth.Gate
	archive *mongodb.Repository

	checklist *checklistsvc.Service
	history   *historysvc.Service
	admin     *adminsvc.Service

	closers []func(context.Context) error
}

// newApp loads the configuration and wires storage, remote clients, sinks
// and services. Optional sinks that fail to initialise are logged and skipped.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	baseLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(baseLogger)

	a := &app{cfg: cfg, logger: baseLogger, inbox: notify.NewInbox(0)}

	store, err := kv.OpenSQLite(ctx, cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("open device cache: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return store.Close() })

	baseline, err := catalog.Baseline()
	if err != nil {
		return nil, fmt.Errorf("load bundled catalog: %w", err)
	}

	a.gate, err = auth.NewGate(cfg.Admin.Password, cfg.Admin.TokenSecret, cfg.Admin.TokenTTL)
	if err != nil {
		return nil, err
	}

	generator := document.NewGenerator(logger.Named(baseLogger, "document"))
	deps := checklistsvc.Dependencies{
		Cache:     cache.NewStore(store, a.inbox, logger.Named(baseLogger, "cache")),
		CacheKey:  cfg.Cache.Key,
		Baseline:  baseline,
		Documents: generator,
		Notifier:  a.inbox,
	}

	// Interfaces stay nil in offline mode so the services can tell.
	var (
		logStore historysvc.LogStore
		equip    adminsvc.Catalog
	)
	if cfg.Remote.Enabled() {
		client := supabase.NewClient(supabase.Config{
			URL:     cfg.Remote.URL,
			APIKey:  cfg.Remote.APIKey,
			Timeout: cfg.Remote.Timeout,
		})
		equipRepo := remote.NewEquipmentRepository(client, cfg.Remote.EquipmentTable, logger.Named(baseLogger, "repo.equipment"))
		logRepo := remote.NewLogRepository(client, cfg.Remote.LogsTable, logger.Named(baseLogger, "repo.logs"))
		deps.Remote = equipRepo
		deps.Logs = logRepo
		logStore = logRepo
		equip = equipRepo
	} else {
		baseLogger.Warn("remote store not configured, running offline")
	}

	a.wireSinks(ctx, &deps)

	a.checklist = checklistsvc.NewService(deps, logger.Named(baseLogger, "svc.checklist"))
	a.history = historysvc.NewService(logStore, generator, a.gate, logger.Named(baseLogger, "svc.history"))
	a.admin = adminsvc.NewService(equip, a.checklist, a.gate, logger.Named(baseLogger, "svc.admin"))

	return a, nil
}

func (a *app) wireSinks(ctx context.Context, deps *checklistsvc.Dependencies) {
	cfg := a.cfg

	if cfg.MongoDB.URI != "" {
		repo, err := mongodb.NewRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(a.logger, "repo.mongodb"))
		if err != nil {
			a.logger.Error("log archive disabled", zap.Error(err))
		} else {
			a.archive = repo
			deps.Archive = repo
			a.closers = append(a.closers, repo.Close)
		}
	}

	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(a.logger, "repo.sheets"))
		if err != nil {
			a.logger.Error("log sheet disabled", zap.Error(err))
		} else {
			deps.Sheet = sheets.NewLogWriter(repo, cfg.Sheets.Range)
		}
	}

	if cfg.Documents.Enabled() {
		client, err := documents.NewS3Client(ctx, cfg.Documents)
		if err != nil {
			a.logger.Error("document archive disabled", zap.Error(err))
		} else {
			deps.DocumentStore = documents.NewArchive(client, cfg.Documents.Bucket, logger.Named(a.logger, "repo.documents"))
		}
	}
}

// Close releases storage handles in reverse order and flushes the logger.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
