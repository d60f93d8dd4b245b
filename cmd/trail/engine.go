package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/courselets/trail"
	"github.com/courselets/trail/internal/config"
	"github.com/courselets/trail/internal/logging"
	"github.com/courselets/trail/pkg/adapters/bolt"
	redisAdapter "github.com/courselets/trail/pkg/adapters/redis"
	"github.com/courselets/trail/pkg/graphspec"
	"github.com/courselets/trail/pkg/observability"
	"github.com/courselets/trail/pkg/plugin"
	"github.com/courselets/trail/pkg/plugins/chat"
	"github.com/courselets/trail/pkg/plugins/lesson"
	"github.com/courselets/trail/pkg/plugins/live"
	"github.com/courselets/trail/pkg/session"
)

// builtinSources lists the graph bundles shipped with the binary.
func builtinSources() []graphspec.Source {
	return []graphspec.Source{lesson.Source, live.Source, chat.Source}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// buildEngine assembles the engine from configuration. The returned
// cleanup function closes whatever backends were opened.
func buildEngine(cfg *config.Config) (*trail.Engine, func(), *slog.Logger, error) {
	logger := logging.New(logging.ParseLevel(cfg.Logging.Level))
	cleanup := func() {}

	reg := plugin.NewRegistry()
	lesson.Register(reg)
	live.Register(reg)
	chat.Register(reg)

	opts := []trail.Option{
		trail.WithLogger(logger),
		trail.WithRegistry(reg),
	}

	if cfg.Store.Backend == "bolt" {
		store, err := bolt.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open bolt store %s: %w", cfg.Store.Path, err)
		}
		cleanup = func() { store.Close() }
		opts = append(opts,
			trail.WithGraphStore(store),
			trail.WithStateStore(store),
			trail.WithActivityStore(store),
		)
	}

	if cfg.Redis.Enabled {
		client := backend.NewClient(&backend.Options{Addr: cfg.Redis.Addr})
		slotOpts := []redisAdapter.SlotOption{redisAdapter.WithPrefix(cfg.Redis.Prefix)}
		if cfg.Redis.SlotTTL > 0 {
			slotOpts = append(slotOpts, redisAdapter.WithTTL(cfg.Redis.SlotTTL))
		}
		opts = append(opts,
			trail.WithSessionSlot(redisAdapter.NewSlot(client, slotOpts...)),
			trail.WithLocker(redisAdapter.NewLocker(client, cfg.Redis.Prefix)),
			trail.WithSessionOptions(session.WithLockTTL(cfg.Redis.LockTTL)),
		)
		prev := cleanup
		cleanup = func() {
			client.Close()
			prev()
		}
	}

	if cfg.Metrics.Enabled {
		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
		opts = append(opts, trail.WithLifecycleHooks(metrics.Hooks()))
	}

	return trail.New(opts...), cleanup, logger, nil
}
