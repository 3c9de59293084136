package profiles

import (
	"context"
	"fmt"

	"github.com/profilku/profilku/internal/config"
	"github.com/profilku/profilku/internal/database"
	"github.com/profilku/profilku/pkg/logger"
)

// Open builds the profile service for the configured PROFILE_SOURCE.
func Open(ctx context.Context, cfg *config.Config) (*Service, error) {
	switch cfg.Profiles.Source {
	case "", "rest":
		logger.Infof("profiles: hosted table API at %s", cfg.Supabase.URL)
		return NewService(NewRESTSource(NewRESTClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, nil))), nil
	case "postgres":
		pool, err := database.ConnectPostgres(ctx, cfg.Profiles.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Infof("profiles: postgres")
		svc := NewService(NewPostgresSource(pool))
		svc.ping = pool.Ping
		svc.close = pool.Close
		return svc, nil
	case "mongo":
		client, err := database.ConnectMongo(ctx, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		logger.Infof("profiles: mongo database %s", cfg.MongoDB.Database)
		svc := NewService(NewMongoSource(client.Database(cfg.MongoDB.Database).Collection("profiles")))
		svc.ping = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		svc.close = func() { _ = client.Disconnect(context.Background()) }
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown profile source %q", cfg.Profiles.Source)
	}
}
