package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/felixgeelhaar/kaina/internal/adaptive"
	"github.com/felixgeelhaar/kaina/internal/config"
	"github.com/felixgeelhaar/kaina/internal/content"
	"github.com/felixgeelhaar/kaina/internal/learner"
	"github.com/felixgeelhaar/kaina/internal/queue"
	"github.com/felixgeelhaar/kaina/internal/session"
	"github.com/felixgeelhaar/kaina/internal/storage/postgres"
	"github.com/felixgeelhaar/kaina/internal/storage/sqlite"
)

// Services bundles the drill stack wired for one process. Both the daemon
// and the MCP stdio server build on it.
type Services struct {
	Drill    *session.Service
	Registry *content.Registry

	db       *sqlite.DB
	queue    *queue.Connection
	consumer *queue.Consumer
}

// BuildServices wires the content registry, the configured storage
// backend, the selection policy and (optionally) the answer-event queue.
func BuildServices(ctx context.Context, cfg *config.LocalConfig) (*Services, error) {
	dir, err := config.EnsureKainaDir()
	if err != nil {
		return nil, fmt.Errorf("ensure kaina dir: %w", err)
	}

	contentDir := cfg.Content.Path
	if contentDir == "" {
		contentDir = filepath.Join(dir, "content")
	}

	registry := content.NewRegistry(content.NewLoader(contentDir))
	if err := registry.Load(); err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	svcs := &Services{Registry: registry}

	var (
		learnerStore learner.Store
		sessionStore session.SessionStore
	)

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := svcs.openDB(dir)
		if err != nil {
			return nil, err
		}
		learnerStore = sqlite.NewLearnerStore(db)
		sessionStore = sqlite.NewSessionStore(db)

	case config.BackendPostgres:
		pool, err := postgres.Connect(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		pgStore := postgres.NewLearnerStore(pool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		learnerStore = pgStore

		// Sessions are device-local even with a shared learner store.
		store, err := session.NewStore(filepath.Join(dir, "sessions"))
		if err != nil {
			return nil, fmt.Errorf("create session store: %w", err)
		}
		sessionStore = store

	default:
		fileStore, err := learner.NewFileStore(filepath.Join(dir, "learners"))
		if err != nil {
			return nil, fmt.Errorf("create learner store: %w", err)
		}
		learnerStore = fileStore

		store, err := session.NewStore(filepath.Join(dir, "sessions"))
		if err != nil {
			return nil, fmt.Errorf("create session store: %w", err)
		}
		sessionStore = store
	}

	resilientCfg := learner.DefaultResilientConfig()
	resilientCfg.Logger = slog.Default()
	learners := learner.NewService(learner.NewResilientStore(learnerStore, resilientCfg))

	policy := adaptive.NewPolicy(adaptive.NewBetaSampler(nil), nil)
	binder := content.NewBinder(registry, nil)

	svcs.Drill = session.NewService(sessionStore, learners, registry, policy, binder)

	if cfg.Events.Enabled && cfg.Events.RabbitMQURL != "" {
		if err := svcs.startEvents(ctx, cfg, dir); err != nil {
			svcs.Close()
			return nil, err
		}
	}

	return svcs, nil
}

// openDB opens the shared sqlite database, applying migrations once.
func (s *Services) openDB(dir string) (*sqlite.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := sqlite.Open(filepath.Join(dir, "kaina.db"))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	s.db = db
	return db, nil
}

// startEvents connects the answer-event queue: a producer on the drill
// path and a consumer appending events to the sqlite attempt log.
func (s *Services) startEvents(ctx context.Context, cfg *config.LocalConfig, dir string) error {
	conn, err := queue.NewConnection(cfg.Events.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	s.queue = conn
	s.Drill.SetEventProducer(queue.NewProducer(conn))

	db, err := s.openDB(dir)
	if err != nil {
		return err
	}
	attempts := sqlite.NewAttemptStore(db)

	s.consumer = queue.NewConsumer(conn, func(ctx context.Context, ev *queue.AnswerEvent) error {
		return attempts.Record(ctx, &sqlite.Attempt{
			EventID:   ev.ID.String(),
			LearnerID: ev.LearnerID,
			SessionID: ev.SessionID,
			Arm:       ev.ArmKey,
			Price:     ev.Number,
			Correct:   ev.Correct,
			CreatedAt: ev.AnsweredAt,
		})
	}, queue.DefaultConsumerConfig())

	if err := s.consumer.Start(ctx); err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}

	slog.Info("answer events enabled", "queue", queue.AnswerQueueName)
	return nil
}

// Close releases queue and database handles.
func (s *Services) Close() {
	if s.consumer != nil {
		s.consumer.Stop()
	}
	if s.queue != nil {
		if err := s.queue.Close(); err != nil {
			slog.Warn("failed to close queue connection", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Warn("failed to close database", "error", err)
		}
	}
}
