// Command profile-check performs the dashboard's profile lookup for one user
// id against the configured source and prints the row as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/profilku/profilku/internal/config"
	"github.com/profilku/profilku/internal/profiles"
	"github.com/profilku/profilku/pkg/logger"
)

func main() {
	id := pflag.StringP("id", "i", "", "profile id (the auth user id)")
	token := pflag.StringP("token", "t", "", "user access token, for sources that enforce row-level security")
	timeout := pflag.Duration("timeout", 15*time.Second, "lookup timeout")
	pflag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	if *id == "" {
		fmt.Fprintln(os.Stderr, "usage: profile-check --id <user id> [--token <access token>]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	os.Exit(run(cfg, *id, *token, *timeout))
}

func run(cfg *config.Config, id, token string, timeout time.Duration) int {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	svc, err := profiles.Open(ctx, cfg)
	if err != nil {
		logger.Errorf("open profile source %q: %v", cfg.Profiles.Source, err)
		return 1
	}
	defer svc.Close()

	p, err := svc.Fetch(ctx, id, token)
	switch {
	case errors.Is(err, profiles.ErrNoRows):
		logger.Errorf("no profile row for %s", id)
		return 1
	case errors.Is(err, profiles.ErrMultipleRows):
		logger.Errorf("more than one profile row for %s", id)
		return 1
	case err != nil:
		logger.Errorf("%v", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		logger.Errorf("encode: %v", err)
		return 1
	}
	return 0
}
