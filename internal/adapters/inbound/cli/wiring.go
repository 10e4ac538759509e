package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/renewalops/renewguard/internal/adapters/outbound/config"
	"github.com/renewalops/renewguard/internal/adapters/outbound/salesforce"
	"github.com/renewalops/renewguard/internal/domain"
)

// newCRMClient builds a Salesforce client from SALESFORCE_* env vars.
func newCRMClient(logger *slog.Logger) (*salesforce.Client, error) {
	creds, err := salesforce.CredentialsFromEnv()
	if err != nil {
		return nil, fmt.Errorf("salesforce credentials: %w", err)
	}
	return salesforce.New(creds, salesforce.WithLogger(logger)), nil
}

// loadConfig reads the tenant overrides from dir, falling back to defaults.
func loadConfig(dir string) (domain.Config, error) {
	return config.New().Load(dir)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
