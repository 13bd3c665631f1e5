// Package featureflags wraps the Rollout (rox) SDK behind a small container
// of typed flags. Initialization is best-effort: without an API key the
// registered defaults are served, so the store keeps working offline from
// the flag backend.
package featureflags

import (
	"context"
	"fmt"
	"os"

	"github.com/rollout/rox-go/v5/server"
)

// Flags holds every flag the service consults.
type Flags struct {
	// Offline is a kill-switch: when ON, everything but health endpoints
	// returns 503.
	Offline server.RoxFlag
	// LogLevel drives the levelled logger ("debug", "info", "warn", "error").
	LogLevel server.RoxString
}

var (
	flags = &Flags{
		Offline:  server.NewRoxFlag(false),
		LogLevel: server.NewRoxString("info", []string{"debug", "info", "warn", "error"}),
	}
	rox *server.Rox
)

// Values returns the flag container. Safe to call before Init; flags then
// report their registered defaults.
func Values() *Flags {
	return flags
}

// Init connects to Rollout. An empty apiKey falls back to the ROX_API_KEY
// environment variable; if that is empty too, Init returns an error and the
// service runs on defaults.
func Init(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ROX_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no rollout api key configured, using flag defaults")
	}

	rox = server.NewRox()
	rox.Register("unishop", flags)

	done := rox.Setup(apiKey, server.NewRoxOptions(server.RoxOptionsBuilder{}))
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("rollout setup timed out: %w", ctx.Err())
	}
}

// Shutdown releases the SDK. No-op when Init never connected.
func Shutdown() {
	if rox != nil {
		<-rox.Shutdown()
		rox = nil
	}
}
