// Package secret implements the TokenStore port over the host's secret
// sources: an environment variable first, then a token file.
package secret

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/ericfisherdev/prpanel/internal/domain/port/driven"
)

// tokenEnvVar overrides the token file when set. Useful for containers and CI.
const tokenEnvVar = "PRPANEL_GITHUB_TOKEN"

// Compile-time interface satisfaction check.
var _ driven.TokenStore = (*Store)(nil)

// Store resolves the GitHub access token. A missing token is reported as
// ("", nil) so the caller can distinguish "unconfigured" from a lookup
// failure.
type Store struct {
	filePath string
}

// NewStore creates a Store reading from the given token file. filePath may
// be empty, in which case only the environment variable is consulted.
func NewStore(filePath string) *Store {
	return &Store{filePath: filePath}
}

// Get returns the access token, preferring the environment variable over
// the token file. File read failures other than absence are wrapped in
// SecretStoreError.
func (s *Store) Get(_ context.Context) (string, error) {
	if v := strings.TrimSpace(os.Getenv(tokenEnvVar)); v != "" {
		return v, nil
	}

	if s.filePath == "" {
		return "", nil
	}

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", &driven.SecretStoreError{Err: err}
	}

	return strings.TrimSpace(string(data)), nil
}
