package common

import (
	"go.uber.org/zap"
)

// NewLogger builds the process-wide zap logger. Development mode switches to
// the human-readable console encoder.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
