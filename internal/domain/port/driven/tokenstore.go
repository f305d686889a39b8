package driven

import (
	"context"
	"fmt"
)

// TokenStore is the driven port for the external secret store holding the
// GitHub access token. Get returns ("", nil) when no token is configured;
// that is the unconfigured state, not an error.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
}

// SecretStoreError reports a failed token lookup. It is surfaced distinctly
// from fetch errors because it blocks all functionality.
type SecretStoreError struct {
	Err error
}

func (e *SecretStoreError) Error() string {
	return fmt.Sprintf("secret store: %v", e.Err)
}

func (e *SecretStoreError) Unwrap() error { return e.Err }
