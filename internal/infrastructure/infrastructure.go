// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, database, oracle client, policy
// knowledge base, accuracy tracker) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/arbiterhq/arbiter/internal/accuracy"
	"github.com/arbiterhq/arbiter/internal/config"
	"github.com/arbiterhq/arbiter/internal/oracle"
	"github.com/arbiterhq/arbiter/internal/policy"
	"github.com/arbiterhq/arbiter/pkg/database"
	"github.com/arbiterhq/arbiter/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, the reasoning oracle, and the feedback loop state.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Oracle    oracle.Oracle
	Policy    *policy.Policy
	Tracker   *accuracy.Tracker
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	o, err := oracle.NewGemini(ctx, &cfg.Oracle, logger)
	if err != nil {
		return nil, fmt.Errorf("oracle init failed: %w", err)
	}

	pol, err := policy.Load(cfg.Engine.PolicyDir)
	if err != nil {
		return nil, fmt.Errorf("policy load failed: %w", err)
	}

	tracker, err := accuracy.NewTracker(cfg.Engine.MetricsPath, logger)
	if err != nil {
		return nil, fmt.Errorf("accuracy tracker init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Oracle:    o,
		Policy:    pol,
		Tracker:   tracker,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}
