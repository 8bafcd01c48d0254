package app

import (
	"context"
	"fmt"

	"proposal-service/internal/access"
	"proposal-service/internal/audit"
	"proposal-service/internal/auth"
	"proposal-service/internal/config"
	"proposal-service/internal/export"
	"proposal-service/internal/http"
	"proposal-service/internal/http/middleware"
	"proposal-service/internal/infra/cache"
	"proposal-service/internal/repository"
	"proposal-service/internal/repository/memory"
	"proposal-service/internal/repository/postgres"
	"proposal-service/internal/storage/s3"
	"proposal-service/pkg/metrics"
	"proposal-service/pkg/password"

	"go.uber.org/zap"
)

// Stores groups the repositories selected by STORAGE_DRIVER.
type Stores struct {
	Proposals repository.ProposalRepository
	Users     repository.UserRepository
	Sessions  repository.SessionRepository
	Audit     audit.Store
	db        *postgres.DB
}

// Close releases the database pool, if any.
func (s *Stores) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// OpenStores connects the configured storage driver. The postgres schema is
// applied on every open.
func OpenStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Stores, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn("using in-memory storage; data is lost on restart")
		return &Stores{
			Proposals: memory.NewProposalRepository(),
			Users:     memory.NewUserRepository(),
			Sessions:  memory.NewSessionRepository(),
			Audit:     audit.NewMemoryStore(),
		}, nil
	}

	db, err := postgres.New(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)

	return &Stores{
		Proposals: postgres.NewProposalRepository(db),
		Users:     postgres.NewUserRepository(db),
		Sessions:  postgres.NewSessionRepository(db),
		Audit:     postgres.NewAuditStore(db),
		db:        db,
	}, nil
}

func newArchiver(ctx context.Context, cfg *config.ArchiveConfig, log *zap.Logger) (access.Archiver, error) {
	if !cfg.Enabled() {
		log.Info("signed-agreement archive disabled")
		return s3.NoopArchiver{}, nil
	}

	client, err := s3.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	if err := client.CheckBucket(ctx, cfg.Bucket); err != nil {
		log.Warn("archive bucket check failed", zap.String("bucket", cfg.Bucket), zap.Error(err))
	}

	log.Info("signed-agreement archive enabled", zap.String("bucket", cfg.Bucket), zap.String("region", cfg.Region))
	return s3.NewArchiver(client, cfg.Bucket, export.JSONRenderer{}), nil
}

// Initialize wires every dependency and returns a ready Service.
func Initialize(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Service, error) {
	stores, err := OpenStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if cfg.App.SeedOnStartup {
		if _, err := Seed(ctx, stores.Proposals, log); err != nil {
			stores.Close()
			return nil, err
		}
	}

	archiver, err := newArchiver(ctx, &cfg.Archive, log)
	if err != nil {
		stores.Close()
		return nil, err
	}

	m := metrics.New()
	auditLogger := audit.NewLogger(stores.Audit, log)
	policy := access.NewPolicy(stores.Proposals, nil, archiver, m, log, cfg.App.MaxSignatureBytes)

	manager := auth.NewManager(
		stores.Users,
		stores.Sessions,
		cache.NewSessionCache(),
		password.NewHasher(cfg.App.BcryptCost),
		cfg.Session,
		log,
	)

	csrf := middleware.NewCSRFMiddleware(ctx)

	server := http.NewServer(&http.ServerDependencies{
		Config:         cfg,
		Logger:         log,
		Policy:         policy,
		AuthManager:    manager,
		AuthMiddleware: auth.NewMiddleware(manager, cfg.Session),
		CSRFMiddleware: csrf,
		AuditLogger:    auditLogger,
		Metrics:        m,
	})

	return &Service{
		config:      cfg,
		logger:      log,
		stores:      stores,
		sessions:    manager,
		csrf:        csrf,
		auditLogger: auditLogger,
		server:      server,
	}, nil
}
