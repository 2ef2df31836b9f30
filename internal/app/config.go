package app

import (
	"fmt"
	"time"

	"github.com/specialistvlad/stagegraph/internal/config"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	TaskPaths []string `validate:"required,min=1,dive,required"`

	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	HealthcheckPort int    `validate:"gte=0,lte=65535"`

	// MaxSolutions and Timeout override the task file when positive.
	MaxSolutions int           `validate:"gte=0"`
	Timeout      time.Duration `validate:"gte=0"`

	// Output selects the report format.
	Output string `validate:"oneof=text json"`
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := config.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
