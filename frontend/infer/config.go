package infer

import (
	"log/slog"

	"github.com/cottand/dltype/internal/log"
	"github.com/pkg/errors"
)

// ErrNotConverged is returned by Analysis.Run when resolutions keep changing
// after Config.MaxIterations iterations
var ErrNotConverged = errors.New("type analysis did not converge")

type Config struct {
	// Debug keeps the constraint-solving trace and an annotated copy of every clause,
	// for Analysis.Print
	Debug bool
	// MaxIterations bounds the iterations of the fixpoint loop
	MaxIterations int
	Logger        *slog.Logger
}

const defaultMaxIterations = 64

func DefaultConfig() Config {
	return Config{
		MaxIterations: defaultMaxIterations,
		Logger:        log.DefaultLogger,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxIterations <= 0 {
		c.MaxIterations = defaultMaxIterations
	}
	if c.Logger == nil {
		c.Logger = log.DefaultLogger
	}
	return c
}
