// Package config holds the validated application configuration assembled
// from CLI flags and PRPANEL_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ericfisherdev/prpanel/internal/domain/model"
)

// Config is the validated runtime configuration.
type Config struct {
	PollInterval time.Duration
	Reasons      model.ReasonSet
	TokenFile    string
	ListenAddr   string
}

// New validates raw settings into a Config. reasonsRaw is a comma-separated
// list of notification reason keys; empty disables filtering. An empty
// tokenFile falls back to <user config dir>/prpanel/token when one can be
// determined, leaving the PRPANEL_GITHUB_TOKEN env var as the only source
// otherwise.
func New(pollInterval time.Duration, reasonsRaw, tokenFile, listenAddr string) (*Config, error) {
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", pollInterval)
	}

	reasons, err := model.ParseReasonSet(reasonsRaw)
	if err != nil {
		return nil, fmt.Errorf("parsing notification reasons: %w", err)
	}

	if tokenFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			tokenFile = filepath.Join(dir, "prpanel", "token")
		}
	}

	if listenAddr == "" {
		listenAddr = "127.0.0.1:8080"
	}

	return &Config{
		PollInterval: pollInterval,
		Reasons:      reasons,
		TokenFile:    tokenFile,
		ListenAddr:   listenAddr,
	}, nil
}
