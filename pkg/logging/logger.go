// Package logging builds the service logger and keeps secrets out of log
// output.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a zap logger for the given environment. Production gets
// JSON output at info level, everything else gets the development console
// encoder at debug level.
func NewLogger(env string) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}
