package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/gtmsuite/pkg/log"
)

// AgentsConfig holds the sampling settings of the three assistants.
type AgentsConfig struct {
	AskGTMTemperature    float64 `env:"ASKGTM_TEMPERATURE" envDefault:"0.2"`
	DealSenseTemperature float64 `env:"DEALSENSE_TEMPERATURE" envDefault:"0.3"`
	DealSenseWorkers     int     `env:"DEALSENSE_WORKERS" envDefault:"4"`

	OutreachTemperature float64 `env:"OUTREACH_TEMPERATURE" envDefault:"0.7"`
	OutreachVariantStep float64 `env:"OUTREACH_VARIANT_STEP" envDefault:"0.1"`
	OutreachMaxVariants int     `env:"OUTREACH_MAX_VARIANTS" envDefault:"5"`
}

func NewAgentsConfig(ctx context.Context) *AgentsConfig {
	c := &AgentsConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Agents config")
	}
	return c
}
